// Package domain defines events for the event-driven architecture.
// Events decouple the playback and library services from the UI layer.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback events
	EventTrackLoaded  EventType = "track.loaded"
	EventTrackStarted EventType = "track.started"
	EventTrackPaused  EventType = "track.paused"
	EventTrackEnded   EventType = "track.ended"
	EventTrackFailed  EventType = "track.failed"

	// Volume events
	EventVolumeChanged EventType = "volume.changed"

	// Library scanning events
	EventScanStarted   EventType = "scan.started"
	EventScanProgress  EventType = "scan.progress"
	EventScanCompleted EventType = "scan.completed"
	EventScanCancelled EventType = "scan.cancelled"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackLoadedEvent is published when a track is successfully loaded.
type TrackLoadedEvent struct {
	baseEvent
	Track    MusicTrack
	Duration time.Duration
}

// Type returns the event type.
func (e TrackLoadedEvent) Type() EventType { return EventTrackLoaded }

// NewTrackLoadedEvent creates a new TrackLoadedEvent.
func NewTrackLoadedEvent(track MusicTrack, duration time.Duration) TrackLoadedEvent {
	return TrackLoadedEvent{baseEvent: newBaseEvent(), Track: track, Duration: duration}
}

// TrackStartedEvent is published when playback starts or resumes.
type TrackStartedEvent struct {
	baseEvent
	Track MusicTrack
}

// Type returns the event type.
func (e TrackStartedEvent) Type() EventType { return EventTrackStarted }

// NewTrackStartedEvent creates a new TrackStartedEvent.
func NewTrackStartedEvent(track MusicTrack) TrackStartedEvent {
	return TrackStartedEvent{baseEvent: newBaseEvent(), Track: track}
}

// TrackPausedEvent is published when playback is paused.
type TrackPausedEvent struct {
	baseEvent
	Track    MusicTrack
	Position time.Duration
}

// Type returns the event type.
func (e TrackPausedEvent) Type() EventType { return EventTrackPaused }

// NewTrackPausedEvent creates a new TrackPausedEvent.
func NewTrackPausedEvent(track MusicTrack, position time.Duration) TrackPausedEvent {
	return TrackPausedEvent{baseEvent: newBaseEvent(), Track: track, Position: position}
}

// TrackEndedEvent is published when the decode loop reaches end of stream.
type TrackEndedEvent struct {
	baseEvent
	Track MusicTrack
}

// Type returns the event type.
func (e TrackEndedEvent) Type() EventType { return EventTrackEnded }

// NewTrackEndedEvent creates a new TrackEndedEvent.
func NewTrackEndedEvent(track MusicTrack) TrackEndedEvent {
	return TrackEndedEvent{baseEvent: newBaseEvent(), Track: track}
}

// TrackFailedEvent is published when loading or decoding a track fails.
type TrackFailedEvent struct {
	baseEvent
	Track MusicTrack
	Error error
}

// Type returns the event type.
func (e TrackFailedEvent) Type() EventType { return EventTrackFailed }

// NewTrackFailedEvent creates a new TrackFailedEvent.
func NewTrackFailedEvent(track MusicTrack, err error) TrackFailedEvent {
	return TrackFailedEvent{baseEvent: newBaseEvent(), Track: track, Error: err}
}

// VolumeChangedEvent is published when the volume is changed.
type VolumeChangedEvent struct {
	baseEvent
	Volume float64 // Volume after clamping to [0, 1]
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType { return EventVolumeChanged }

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(volume float64) VolumeChangedEvent {
	return VolumeChangedEvent{baseEvent: newBaseEvent(), Volume: volume}
}

// ScanStartedEvent is published when a library scan begins.
type ScanStartedEvent struct {
	baseEvent
	Path string
}

// Type returns the event type.
func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// NewScanStartedEvent creates a new ScanStartedEvent.
func NewScanStartedEvent(path string) ScanStartedEvent {
	return ScanStartedEvent{baseEvent: newBaseEvent(), Path: path}
}

// ScanProgressEvent is published periodically during a library scan.
type ScanProgressEvent struct {
	baseEvent
	Progress ScanProgress
}

// Type returns the event type.
func (e ScanProgressEvent) Type() EventType { return EventScanProgress }

// NewScanProgressEvent creates a new ScanProgressEvent.
func NewScanProgressEvent(progress ScanProgress) ScanProgressEvent {
	return ScanProgressEvent{baseEvent: newBaseEvent(), Progress: progress}
}

// ScanCompletedEvent is published when a library scan finishes.
type ScanCompletedEvent struct {
	baseEvent
	AlbumCount int
	TrackCount int
}

// Type returns the event type.
func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// NewScanCompletedEvent creates a new ScanCompletedEvent.
func NewScanCompletedEvent(albums, tracks int) ScanCompletedEvent {
	return ScanCompletedEvent{baseEvent: newBaseEvent(), AlbumCount: albums, TrackCount: tracks}
}

// ScanCancelledEvent is published when a library scan is cancelled.
type ScanCancelledEvent struct {
	baseEvent
	Reason string
}

// Type returns the event type.
func (e ScanCancelledEvent) Type() EventType { return EventScanCancelled }

// NewScanCancelledEvent creates a new ScanCancelledEvent.
func NewScanCancelledEvent(reason string) ScanCancelledEvent {
	return ScanCancelledEvent{baseEvent: newBaseEvent(), Reason: reason}
}
