// Package ports define interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"time"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// AudioEngine is the interface for the decode pipeline.
// Implementations turn an encoded media file into a steady stream of
// fixed-rate, volume-scaled mono samples produced on a background goroutine.
//
// Implementations must be thread-safe as they are called from multiple goroutines.
type AudioEngine interface {
	// Load probes the file at path, builds a decoder and (when the native rate
	// differs from the engine's output rate) a streaming resampler, then starts
	// the decode goroutine and returns immediately.
	//
	// Loading a new track cancels the previous decode goroutine and waits for it
	// to exit before the new one starts, so at most one producer feeds the sample
	// queue at any time.
	//
	// A failed Load leaves the previous playback state untouched.
	Load(path string) error

	// Play sets the shared playing flag. The decode loop polls it, so production
	// can lag by up to one poll interval after unpausing.
	Play()

	// Pause clears the shared playing flag. The decode goroutine stays alive,
	// parked on a short poll sleep, until the next Load or Close.
	Pause()

	// Samples atomically drains and returns all samples buffered since the last
	// call. The drain is destructive and non-blocking; with no intervening
	// production a second call returns an empty slice.
	Samples() []float32

	// Snapshot returns an atomic multi-field view of the playback state:
	// status, position, duration, volume, and the failure reason if any.
	Snapshot() domain.PlaybackSnapshot

	// Position returns the current decode position.
	Position() time.Duration

	// Duration returns the total track length, or zero when unknown.
	Duration() time.Duration

	// SetVolume clamps v to [0, 1] and applies it to every block processed
	// after the call, including blocks of the already-running decode goroutine.
	SetVolume(v float64)

	// Close cancels any running decode goroutine, waits for it to exit, and
	// releases engine resources. The engine cannot be used after Close.
	Close() error
}
