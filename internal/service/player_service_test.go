package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapedeck-audio/tapedeck/internal/adapter/audio/mock"
	"github.com/tapedeck-audio/tapedeck/internal/adapter/eventbus"
	"github.com/tapedeck-audio/tapedeck/internal/domain"
	"github.com/tapedeck-audio/tapedeck/internal/logger"
)

// Helper to create a test playback service
func newTestPlaybackService() (*PlaybackService, *mock.Engine, *eventbus.SyncEventBus) {
	engine := mock.NewEngine()
	bus := eventbus.NewSyncEventBus()

	svc := NewPlaybackService(logger.NewTestLogger(), engine, bus)

	return svc, engine, bus
}

// Helper to create a test track
func createTestTrack(title, path string) domain.MusicTrack {
	return domain.MusicTrack{
		Title:    title,
		FilePath: path,
		Artist:   "Test Artist",
		Album:    "Test Album",
	}
}

func TestPlaybackService_LoadTrack(t *testing.T) {
	svc, engine, bus := newTestPlaybackService()
	defer func() { require.NoError(t, svc.Shutdown()) }()

	engine.SetDuration(3 * time.Minute)
	track := createTestTrack("Test Song", "/test/song.mp3")

	var loadedEvent domain.TrackLoadedEvent
	var startedEvent domain.TrackStartedEvent
	bus.Subscribe(domain.EventTrackLoaded, func(e domain.Event) {
		loadedEvent = e.(domain.TrackLoadedEvent)
	})
	bus.Subscribe(domain.EventTrackStarted, func(e domain.Event) {
		startedEvent = e.(domain.TrackStartedEvent)
	})

	err := svc.LoadTrack(track)
	require.NoError(t, err)

	assert.Equal(t, track.FilePath, engine.LoadedPath())
	assert.Equal(t, 1, engine.LoadCount())

	current := svc.CurrentTrack()
	require.NotNil(t, current)
	assert.Equal(t, track.Title, current.Title)
	assert.Equal(t, 3*time.Minute, current.Duration, "duration filled in at load")

	// Loading also starts playback
	snap, _ := svc.Snapshot()
	assert.Equal(t, domain.StatusPlaying, snap.Status)

	assert.Equal(t, track.FilePath, loadedEvent.Track.FilePath)
	assert.Equal(t, 3*time.Minute, loadedEvent.Duration)
	assert.Equal(t, track.FilePath, startedEvent.Track.FilePath)
}

func TestPlaybackService_LoadTrack_Failure(t *testing.T) {
	svc, engine, bus := newTestPlaybackService()
	defer func() { require.NoError(t, svc.Shutdown()) }()

	engine.SetFailLoad(domain.ErrProbeFailure)
	track := createTestTrack("Broken Song", "/test/broken.mp3")

	var failedEvent domain.TrackFailedEvent
	bus.Subscribe(domain.EventTrackFailed, func(e domain.Event) {
		failedEvent = e.(domain.TrackFailedEvent)
	})

	err := svc.LoadTrack(track)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProbeFailure)

	assert.Nil(t, svc.CurrentTrack())
	assert.Equal(t, track.FilePath, failedEvent.Track.FilePath)
	assert.ErrorIs(t, failedEvent.Error, domain.ErrProbeFailure)
}

func TestPlaybackService_PlayPauseWithoutTrack(t *testing.T) {
	svc, _, _ := newTestPlaybackService()
	defer func() { require.NoError(t, svc.Shutdown()) }()

	assert.ErrorIs(t, svc.Play(), domain.ErrNoTrackLoaded)
	assert.ErrorIs(t, svc.Pause(), domain.ErrNoTrackLoaded)
	assert.ErrorIs(t, svc.TogglePlayback(), domain.ErrNoTrackLoaded)
}

func TestPlaybackService_TogglePlayback(t *testing.T) {
	svc, _, bus := newTestPlaybackService()
	defer func() { require.NoError(t, svc.Shutdown()) }()

	var pausedCount, startedCount int
	bus.Subscribe(domain.EventTrackPaused, func(e domain.Event) { pausedCount++ })
	bus.Subscribe(domain.EventTrackStarted, func(e domain.Event) { startedCount++ })

	require.NoError(t, svc.LoadTrack(createTestTrack("Song", "/test/song.mp3")))
	require.Equal(t, 1, startedCount)

	require.NoError(t, svc.TogglePlayback())
	snap, _ := svc.Snapshot()
	assert.Equal(t, domain.StatusPaused, snap.Status)
	assert.Equal(t, 1, pausedCount)

	require.NoError(t, svc.TogglePlayback())
	snap, _ = svc.Snapshot()
	assert.Equal(t, domain.StatusPlaying, snap.Status)
	assert.Equal(t, 2, startedCount)
}

func TestPlaybackService_SetVolume(t *testing.T) {
	svc, _, bus := newTestPlaybackService()
	defer func() { require.NoError(t, svc.Shutdown()) }()

	var volumeEvent domain.VolumeChangedEvent
	bus.Subscribe(domain.EventVolumeChanged, func(e domain.Event) {
		volumeEvent = e.(domain.VolumeChangedEvent)
	})

	svc.SetVolume(0.4)
	assert.Equal(t, 0.4, svc.Volume())
	assert.Equal(t, 0.4, volumeEvent.Volume)

	// Clamping happens in the engine; the event carries the clamped value
	svc.SetVolume(1.5)
	assert.Equal(t, 1.0, svc.Volume())
	assert.Equal(t, 1.0, volumeEvent.Volume)

	svc.SetVolume(-0.5)
	assert.Equal(t, 0.0, svc.Volume())
	assert.Equal(t, 0.0, volumeEvent.Volume)
}

func TestPlaybackService_Samples(t *testing.T) {
	svc, engine, _ := newTestPlaybackService()
	defer func() { require.NoError(t, svc.Shutdown()) }()

	engine.Feed([]float32{0.1, 0.2, 0.3})

	assert.Equal(t, []float32{0.1, 0.2, 0.3}, svc.Samples())
	assert.Empty(t, svc.Samples(), "drain is destructive")
}

func TestPlaybackService_TrackEndedPublishedOnce(t *testing.T) {
	svc, engine, bus := newTestPlaybackService()
	defer func() { require.NoError(t, svc.Shutdown()) }()

	var endedCount int
	bus.Subscribe(domain.EventTrackEnded, func(e domain.Event) { endedCount++ })

	require.NoError(t, svc.LoadTrack(createTestTrack("Song", "/test/song.mp3")))

	engine.FinishTrack()

	snap, _ := svc.Snapshot()
	assert.Equal(t, domain.StatusEnded, snap.Status)
	assert.Equal(t, 1, endedCount)

	// Further snapshots do not re-publish
	_, _ = svc.Snapshot()
	_, _ = svc.Snapshot()
	assert.Equal(t, 1, endedCount)
}

func TestPlaybackService_TrackFailedPublishedOnce(t *testing.T) {
	svc, engine, bus := newTestPlaybackService()
	defer func() { require.NoError(t, svc.Shutdown()) }()

	var failedEvent domain.TrackFailedEvent
	var failedCount int
	bus.Subscribe(domain.EventTrackFailed, func(e domain.Event) {
		failedEvent = e.(domain.TrackFailedEvent)
		failedCount++
	})

	require.NoError(t, svc.LoadTrack(createTestTrack("Song", "/test/song.mp3")))

	engine.FailTrack(domain.ErrDecoderInit)

	snap, _ := svc.Snapshot()
	assert.Equal(t, domain.StatusFailed, snap.Status)
	require.Equal(t, 1, failedCount)
	assert.ErrorIs(t, failedEvent.Error, domain.ErrDecoderInit)

	_, _ = svc.Snapshot()
	assert.Equal(t, 1, failedCount)
}

func TestPlaybackService_ReloadResetsEndedFlag(t *testing.T) {
	svc, engine, bus := newTestPlaybackService()
	defer func() { require.NoError(t, svc.Shutdown()) }()

	var endedCount int
	bus.Subscribe(domain.EventTrackEnded, func(e domain.Event) { endedCount++ })

	require.NoError(t, svc.LoadTrack(createTestTrack("First", "/test/first.mp3")))
	engine.FinishTrack()
	_, _ = svc.Snapshot()
	require.Equal(t, 1, endedCount)

	require.NoError(t, svc.LoadTrack(createTestTrack("Second", "/test/second.mp3")))
	engine.FinishTrack()
	_, _ = svc.Snapshot()
	assert.Equal(t, 2, endedCount)
}
