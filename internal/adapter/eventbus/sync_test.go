package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tapedeck-audio/tapedeck/internal/domain"
)

// TestNewSyncEventBus tests event bus creation.
func TestNewSyncEventBus(t *testing.T) {
	bus := NewSyncEventBus()

	if bus == nil {
		t.Fatal("NewSyncEventBus returned nil")
	}

	if bus.closed {
		t.Error("New event bus should not be closed")
	}
}

// TestPublishSubscribe tests basic publish/subscribe functionality.
func TestPublishSubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer func() { _ = bus.Close() }()

	var received domain.Event
	var callCount int

	handler := func(event domain.Event) {
		received = event
		callCount++
	}

	subID := bus.Subscribe(domain.EventTrackStarted, handler)
	if subID == "" {
		t.Fatal("Subscribe returned empty subscription ID")
	}

	track := domain.MusicTrack{FilePath: "/music/test.mp3", Title: "Test Track"}
	bus.Publish(domain.NewTrackStartedEvent(track))

	if callCount != 1 {
		t.Errorf("Expected handler to be called once, got %d", callCount)
	}

	if received == nil {
		t.Fatal("Handler did not receive event")
	}

	if received.Type() != domain.EventTrackStarted {
		t.Errorf("Expected EventTrackStarted, got %s", received.Type())
	}

	receivedEvent := received.(domain.TrackStartedEvent)
	if receivedEvent.Track.FilePath != "/music/test.mp3" {
		t.Errorf("Expected track path /music/test.mp3, got %s", receivedEvent.Track.FilePath)
	}
}

// TestMultipleSubscribers tests multiple handlers for the same event type.
func TestMultipleSubscribers(t *testing.T) {
	bus := NewSyncEventBus()
	defer func() { _ = bus.Close() }()

	var callCount1, callCount2, callCount3 int32

	bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {
		atomic.AddInt32(&callCount1, 1)
	})
	bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {
		atomic.AddInt32(&callCount2, 1)
	})
	bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {
		atomic.AddInt32(&callCount3, 1)
	})

	track := domain.MusicTrack{FilePath: "/music/test.mp3", Title: "Test"}
	bus.Publish(domain.NewTrackStartedEvent(track))

	if atomic.LoadInt32(&callCount1) != 1 {
		t.Errorf("Handler 1: expected 1 call, got %d", callCount1)
	}
	if atomic.LoadInt32(&callCount2) != 1 {
		t.Errorf("Handler 2: expected 1 call, got %d", callCount2)
	}
	if atomic.LoadInt32(&callCount3) != 1 {
		t.Errorf("Handler 3: expected 1 call, got %d", callCount3)
	}
}

// TestUnsubscribe tests unsubscribing handlers.
func TestUnsubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer func() { _ = bus.Close() }()

	var callCount int32

	subID := bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {
		atomic.AddInt32(&callCount, 1)
	})

	track := domain.MusicTrack{FilePath: "/music/test.mp3", Title: "Test"}
	bus.Publish(domain.NewTrackStartedEvent(track))

	if atomic.LoadInt32(&callCount) != 1 {
		t.Errorf("Expected 1 call before unsubscribe, got %d", callCount)
	}

	bus.Unsubscribe(subID)
	bus.Publish(domain.NewTrackStartedEvent(track))

	if atomic.LoadInt32(&callCount) != 1 {
		t.Errorf("Expected 1 call after unsubscribe, got %d", callCount)
	}
}

// TestUnsubscribeInvalidID tests unsubscribing with invalid ID (should be no-op).
func TestUnsubscribeInvalidID(t *testing.T) {
	bus := NewSyncEventBus()
	defer func() { _ = bus.Close() }()

	bus.Unsubscribe("invalid-id")
	bus.Unsubscribe("")
}

// TestSubscribeAll tests wildcard subscriptions.
func TestSubscribeAll(t *testing.T) {
	bus := NewSyncEventBus()
	defer func() { _ = bus.Close() }()

	var receivedEvents []domain.Event
	var mu sync.Mutex

	bus.SubscribeAll(func(event domain.Event) {
		mu.Lock()
		defer mu.Unlock()
		receivedEvents = append(receivedEvents, event)
	})

	track := domain.MusicTrack{FilePath: "/music/test.mp3", Title: "Test"}
	bus.Publish(domain.NewTrackStartedEvent(track))
	bus.Publish(domain.NewTrackPausedEvent(track, 10*time.Second))
	bus.Publish(domain.NewVolumeChangedEvent(0.5))

	mu.Lock()
	defer mu.Unlock()

	if len(receivedEvents) != 3 {
		t.Errorf("Expected 3 events, got %d", len(receivedEvents))
	}
}

// TestHasSubscribers tests the HasSubscribers method.
func TestHasSubscribers(t *testing.T) {
	bus := NewSyncEventBus()
	defer func() { _ = bus.Close() }()

	if bus.HasSubscribers(domain.EventTrackStarted) {
		t.Error("Expected no subscribers initially")
	}

	bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {})

	if !bus.HasSubscribers(domain.EventTrackStarted) {
		t.Error("Expected subscribers after subscription")
	}

	if bus.HasSubscribers(domain.EventTrackPaused) {
		t.Error("Expected no subscribers for different event type")
	}
}

// TestHandlerPanicRecovery tests that a panicking handler does not stop
// delivery to the remaining handlers.
func TestHandlerPanicRecovery(t *testing.T) {
	bus := NewSyncEventBus()
	defer func() { _ = bus.Close() }()

	var callCount int32

	bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {
		panic("handler exploded")
	})
	bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {
		atomic.AddInt32(&callCount, 1)
	})

	track := domain.MusicTrack{FilePath: "/music/test.mp3", Title: "Test"}
	bus.Publish(domain.NewTrackStartedEvent(track))

	if atomic.LoadInt32(&callCount) != 1 {
		t.Errorf("Expected second handler to run despite panic, got %d calls", callCount)
	}
}

// TestPublishAfterClose tests that publishing after close is a silent no-op.
func TestPublishAfterClose(t *testing.T) {
	bus := NewSyncEventBus()

	var callCount int32
	bus.Subscribe(domain.EventTrackStarted, func(event domain.Event) {
		atomic.AddInt32(&callCount, 1)
	})

	if err := bus.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	track := domain.MusicTrack{FilePath: "/music/test.mp3", Title: "Test"}
	bus.Publish(domain.NewTrackStartedEvent(track))

	if atomic.LoadInt32(&callCount) != 0 {
		t.Errorf("Expected no calls after close, got %d", callCount)
	}

	if err := bus.Close(); err == nil {
		t.Error("Expected error on double close")
	}
}

// TestConcurrentPublish tests thread-safety under concurrent publishers.
func TestConcurrentPublish(t *testing.T) {
	bus := NewSyncEventBus()
	defer func() { _ = bus.Close() }()

	var callCount int32
	bus.Subscribe(domain.EventVolumeChanged, func(event domain.Event) {
		atomic.AddInt32(&callCount, 1)
	})

	const goroutines = 10
	const publishes = 100

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < publishes; j++ {
				bus.Publish(domain.NewVolumeChangedEvent(0.5))
			}
		}()
	}
	wg.Wait()

	if atomic.LoadInt32(&callCount) != goroutines*publishes {
		t.Errorf("Expected %d calls, got %d", goroutines*publishes, callCount)
	}
}
