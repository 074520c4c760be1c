// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that the engine and services can return.
var (
	// ErrNoOutputDevice is returned when no audio output device is available.
	// This is fatal at startup.
	ErrNoOutputDevice = errors.New("no output device available")

	// ErrNoSupportedConfig is returned when the output device refuses the
	// requested stream configuration. This is fatal at startup.
	ErrNoSupportedConfig = errors.New("no supported output configuration")

	// ErrNoSupportedTrack is returned when a container holds no decodable audio track.
	ErrNoSupportedTrack = errors.New("no supported audio track")

	// ErrProbeFailure is returned when a file cannot be read or identified.
	ErrProbeFailure = errors.New("failed to probe file")

	// ErrDecoderInit is returned when a decoder cannot be constructed for a track.
	ErrDecoderInit = errors.New("failed to initialize decoder")

	// ErrUnsupportedFormat is returned when an audio file format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrNoTrackLoaded is returned when playback is attempted with no track loaded.
	ErrNoTrackLoaded = errors.New("no track loaded")

	// ErrLibraryEmpty is returned when an operation requires a non-empty library.
	ErrLibraryEmpty = errors.New("music library is empty")

	// ErrInvalidIndex is returned when an album or track index is out of bounds.
	ErrInvalidIndex = errors.New("invalid library index")

	// ErrScanCancelled is returned when a library scan is canceled.
	ErrScanCancelled = errors.New("scan cancelled")

	// ErrEngineClosed is returned when an operation is attempted on a closed engine.
	ErrEngineClosed = errors.New("audio engine closed")
)

// EngineError represents an error from the audio engine.
// This wraps low-level decode and device errors with additional context.
type EngineError struct {
	Op   string // Operation that failed (e.g., "load", "decode", "resample")
	Path string // File path (if applicable)
	Err  error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("audio engine %s failed for %q: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("audio engine %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *EngineError) Unwrap() error {
	return e.Err
}

// NewEngineError creates a new EngineError.
func NewEngineError(op, path string, err error) *EngineError {
	return &EngineError{Op: op, Path: path, Err: err}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "PlaybackService", "LibraryService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Message: message, Err: err}
}
