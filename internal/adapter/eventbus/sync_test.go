package eventbus

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/radarwhisper/radarwhisper/internal/domain"
)

func TestNewSyncBus(t *testing.T) {
	bus := NewSyncBus(nil)

	if bus == nil {
		t.Fatal("NewSyncBus returned nil")
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers, got %d", bus.SubscriberCount())
	}
}

func TestPublishSubscribe(t *testing.T) {
	bus := NewSyncBus(nil)
	defer bus.Close()

	var received domain.Event
	var calls int

	subID := bus.Subscribe(domain.EventCurrentTrackChanged, func(event domain.Event) {
		received = event
		calls++
	})
	if subID == "" {
		t.Fatal("Subscribe returned empty subscription ID")
	}

	bus.Publish(domain.NewCurrentTrackChangedEvent(3))

	if calls != 1 {
		t.Fatalf("expected handler to be called once, got %d", calls)
	}
	if received.Type() != domain.EventCurrentTrackChanged {
		t.Errorf("expected %s, got %s", domain.EventCurrentTrackChanged, received.Type())
	}
	if e := received.(domain.CurrentTrackChangedEvent); e.Index != 3 {
		t.Errorf("expected index 3, got %d", e.Index)
	}
}

func TestPublishUnrelatedType(t *testing.T) {
	bus := NewSyncBus(nil)
	defer bus.Close()

	var calls int
	bus.Subscribe(domain.EventPlaylistSaved, func(domain.Event) { calls++ })

	bus.Publish(domain.NewPlaylistChangedEvent("p1"))

	if calls != 0 {
		t.Errorf("handler for unrelated type was called %d times", calls)
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := NewSyncBus(nil)
	defer bus.Close()

	var calls int32
	bus.SubscribeAll(func(domain.Event) { atomic.AddInt32(&calls, 1) })

	bus.Publish(domain.NewPlaylistChangedEvent("p1"))
	bus.Publish(domain.NewErrorEvent("boom"))
	bus.Publish(domain.NewShuffleToggledEvent(true))

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected wildcard handler to see 3 events, got %d", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewSyncBus(nil)
	defer bus.Close()

	var calls int
	id := bus.Subscribe(domain.EventError, func(domain.Event) { calls++ })

	bus.Publish(domain.NewErrorEvent("first"))
	bus.Unsubscribe(id)
	bus.Publish(domain.NewErrorEvent("second"))

	if calls != 1 {
		t.Errorf("expected 1 call after unsubscribe, got %d", calls)
	}

	// Unknown IDs are a no-op.
	bus.Unsubscribe("sub-does-not-exist")
}

func TestHandlerPanicDoesNotStopDelivery(t *testing.T) {
	bus := NewSyncBus(nil)
	defer bus.Close()

	var calls int
	bus.Subscribe(domain.EventError, func(domain.Event) { panic("handler bug") })
	bus.Subscribe(domain.EventError, func(domain.Event) { calls++ })

	bus.Publish(domain.NewErrorEvent("boom"))

	if calls != 1 {
		t.Errorf("second handler not called after first panicked, calls=%d", calls)
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	bus := NewSyncBus(nil)

	var calls int
	bus.Subscribe(domain.EventError, func(domain.Event) { calls++ })

	if err := bus.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := bus.Close(); err == nil {
		t.Error("second Close should report an error")
	}

	bus.Publish(domain.NewErrorEvent("after close"))
	if calls != 0 {
		t.Errorf("handler called after close, calls=%d", calls)
	}
	if bus.SubscriberCount() != 0 {
		t.Errorf("subscriptions survived close: %d", bus.SubscriberCount())
	}
}

func TestConcurrentPublish(t *testing.T) {
	bus := NewSyncBus(nil)
	defer bus.Close()

	var calls int64
	bus.Subscribe(domain.EventTrackProgress, func(domain.Event) {
		atomic.AddInt64(&calls, 1)
	})

	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				bus.Publish(domain.NewTrackProgressEvent(0, 0))
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != goroutines*perGoroutine {
		t.Errorf("expected %d deliveries, got %d", goroutines*perGoroutine, got)
	}
}
