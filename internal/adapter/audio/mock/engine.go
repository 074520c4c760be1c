// Package mock provides a mock implementation of the AudioEngine interface.
// This is used for testing services without decoding real files or opening
// an output device.
package mock

import (
	"sync"
	"time"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
	"github.com/tapedeck-audio/tapedeck/internal/ports"
)

// Engine is a mock implementation of the AudioEngine interface.
// It simulates the decode pipeline in memory without producing audio.
//
// Thread-safety: This implementation is thread-safe.
type Engine struct {
	mu sync.Mutex

	loadedPath string
	status     domain.PlaybackStatus
	position   time.Duration
	duration   time.Duration
	volume     float64
	err        error

	pending []float32

	// Behavior configuration (for testing error scenarios)
	failLoad error
	loads    int
}

// NewEngine creates a new mock audio engine.
func NewEngine() *Engine {
	return &Engine{
		status:   domain.StatusIdle,
		volume:   0.7,
		duration: 3 * time.Minute,
	}
}

// SetFailLoad configures the mock to fail Load with the given error.
// Pass nil to restore normal behavior.
func (m *Engine) SetFailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failLoad = err
}

// SetDuration configures the duration reported for subsequently loaded tracks.
func (m *Engine) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// Feed queues samples to be returned by the next Samples call, standing in
// for the decode goroutine of the real pipeline.
func (m *Engine) Feed(samples []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, samples...)
}

// FinishTrack simulates the decode loop reaching end of stream.
func (m *Engine) FinishTrack() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = domain.StatusEnded
}

// FailTrack simulates the decode loop terminating on an error.
func (m *Engine) FailTrack(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = domain.StatusFailed
	m.err = err
}

// LoadCount returns how many successful Load calls the mock has seen.
func (m *Engine) LoadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// LoadedPath returns the path of the currently loaded track.
func (m *Engine) LoadedPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadedPath
}

// Load simulates loading a track.
func (m *Engine) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failLoad != nil {
		return m.failLoad
	}
	if path == "" {
		return domain.NewEngineError("load", path, domain.ErrProbeFailure)
	}

	m.loadedPath = path
	m.status = domain.StatusPaused
	m.position = 0
	m.err = nil
	m.pending = nil
	m.loads++

	return nil
}

// Play simulates starting or resuming playback.
func (m *Engine) Play() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == domain.StatusPaused || m.status == domain.StatusLoading {
		m.status = domain.StatusPlaying
	}
}

// Pause simulates pausing playback.
func (m *Engine) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == domain.StatusPlaying {
		m.status = domain.StatusPaused
	}
}

// Samples drains the queued test samples.
func (m *Engine) Samples() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.pending
	m.pending = nil
	return out
}

// Snapshot returns the simulated playback state.
func (m *Engine) Snapshot() domain.PlaybackSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.PlaybackSnapshot{
		Status:   m.status,
		Position: m.position,
		Duration: m.duration,
		Volume:   m.volume,
		Err:      m.err,
	}
}

// Position returns the simulated position.
func (m *Engine) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

// Duration returns the simulated duration.
func (m *Engine) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

// SetVolume clamps and stores the volume like the real engine.
func (m *Engine) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
}

// Close resets the mock to its idle state.
func (m *Engine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = domain.StatusIdle
	m.loadedPath = ""
	m.pending = nil
	return nil
}

// Verify that Engine implements the AudioEngine interface
var _ ports.AudioEngine = (*Engine)(nil)
