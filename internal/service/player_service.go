// Package service provides business logic for the tapedeck application.
package service

import (
	"log/slog"
	"sync"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
	"github.com/tapedeck-audio/tapedeck/internal/ports"
)

// PlaybackService is the minimal surface other components call for playback:
// load, play/pause, volume, and state snapshots. It delegates to the decode
// pipeline and publishes events the UI layer subscribes to.
//
// All operations are thread-safe via sync.RWMutex.
type PlaybackService struct {
	logger *slog.Logger
	engine ports.AudioEngine
	bus    ports.EventBus

	mu           sync.RWMutex
	currentTrack *domain.MusicTrack
	endedSeen    bool
}

// NewPlaybackService creates a new playback service.
func NewPlaybackService(
	logger *slog.Logger,
	engine ports.AudioEngine,
	bus ports.EventBus,
) *PlaybackService {
	logger.Debug("playback service initialized")

	return &PlaybackService{
		logger: logger,
		engine: engine,
		bus:    bus,
	}
}

// LoadTrack loads a track into the pipeline and starts playing it.
// A failed load publishes track.failed and leaves prior playback untouched.
func (s *PlaybackService) LoadTrack(track domain.MusicTrack) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("loading track", slog.String("file_path", track.FilePath))

	if err := s.engine.Load(track.FilePath); err != nil {
		s.logger.Warn("failed to load track",
			slog.String("file_path", track.FilePath),
			slog.Any("error", err))
		s.bus.Publish(domain.NewTrackFailedEvent(track, err))
		return err
	}

	// The scanner leaves duration unset; the container told the pipeline
	if d := s.engine.Duration(); d > 0 {
		track.Duration = d
	}

	s.currentTrack = &track
	s.endedSeen = false

	s.bus.Publish(domain.NewTrackLoadedEvent(track, track.Duration))

	s.engine.Play()
	s.bus.Publish(domain.NewTrackStartedEvent(track))

	return nil
}

// Play resumes playback of the current track.
func (s *PlaybackService) Play() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentTrack == nil {
		return domain.ErrNoTrackLoaded
	}

	s.engine.Play()
	s.bus.Publish(domain.NewTrackStartedEvent(*s.currentTrack))
	return nil
}

// Pause pauses playback of the current track.
func (s *PlaybackService) Pause() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.currentTrack == nil {
		return domain.ErrNoTrackLoaded
	}

	s.engine.Pause()
	s.bus.Publish(domain.NewTrackPausedEvent(*s.currentTrack, s.engine.Position()))
	return nil
}

// TogglePlayback pauses when playing and plays when paused.
func (s *PlaybackService) TogglePlayback() error {
	switch s.engine.Snapshot().Status {
	case domain.StatusPlaying:
		return s.Pause()
	case domain.StatusPaused, domain.StatusLoading:
		return s.Play()
	default:
		return domain.ErrNoTrackLoaded
	}
}

// SetVolume clamps v to [0, 1], applies it, and publishes volume.changed.
func (s *PlaybackService) SetVolume(v float64) {
	s.engine.SetVolume(v)
	s.bus.Publish(domain.NewVolumeChangedEvent(s.engine.Snapshot().Volume))
}

// Volume returns the current volume after clamping.
func (s *PlaybackService) Volume() float64 {
	return s.engine.Snapshot().Volume
}

// Samples drains the pipeline's sample queue for the visualizer.
func (s *PlaybackService) Samples() []float32 {
	return s.engine.Samples()
}

// Snapshot returns the playback snapshot together with the current track.
// It also publishes track.ended or track.failed exactly once when the decode
// loop has terminated since the last call, so the UI can auto-advance.
func (s *PlaybackService) Snapshot() (domain.PlaybackSnapshot, *domain.MusicTrack) {
	snap := s.engine.Snapshot()

	s.mu.Lock()
	track := s.currentTrack
	notify := !s.endedSeen && track != nil &&
		(snap.Status == domain.StatusEnded || snap.Status == domain.StatusFailed)
	if notify {
		s.endedSeen = true
	}
	s.mu.Unlock()

	if notify {
		if snap.Status == domain.StatusEnded {
			s.bus.Publish(domain.NewTrackEndedEvent(*track))
		} else {
			s.bus.Publish(domain.NewTrackFailedEvent(*track, snap.Err))
		}
	}

	return snap, track
}

// CurrentTrack returns the currently loaded track, or nil.
func (s *PlaybackService) CurrentTrack() *domain.MusicTrack {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTrack
}

// Shutdown closes the underlying engine.
func (s *PlaybackService) Shutdown() error {
	s.logger.Debug("playback service shutting down")
	return s.engine.Close()
}
