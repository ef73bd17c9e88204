package events

import (
	"testing"
	"time"
)

func TestSubscribeReceivesMatchingType(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()

	ch := bus.Subscribe(EventDeviceChanged)
	bus.PublishDeviceChanged("emulator-5554", "Pixel 8")
	bus.PublishLog(InfoLevel, "unrelated", nil)

	select {
	case ev := <-ch:
		dce, ok := ev.(*DeviceChangedEvent)
		if !ok {
			t.Fatalf("event type = %T", ev)
		}
		if dce.DeviceID != "emulator-5554" || dce.DisplayName != "Pixel 8" {
			t.Errorf("event = %+v", dce)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	select {
	case ev := <-ch:
		t.Errorf("received event of wrong type: %v", ev.Type())
	default:
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()

	ch := bus.SubscribeAll()
	bus.PublishLog(WarnLevel, "one", nil)
	bus.PublishDeviceChanged("abc", "x")

	if got := len(ch); got != 2 {
		t.Errorf("buffered events = %d, want 2", got)
	}
}

func TestPublishNeverBlocksOnFullBuffer(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	_ = bus.Subscribe(EventLog)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			bus.PublishLog(InfoLevel, "flood", nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a full subscriber buffer")
	}

	if bus.GetDroppedEventCount() == 0 {
		t.Error("dropped events not counted")
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewEventBus(4)
	defer bus.Close()

	ch := bus.Subscribe(EventLog)
	bus.Unsubscribe(EventLog, ch)
	bus.PublishLog(InfoLevel, "after unsubscribe", nil)

	if got := len(ch); got != 0 {
		t.Errorf("events after unsubscribe = %d", got)
	}
}

func TestPublishAfterCloseIsSafe(t *testing.T) {
	bus := NewEventBus(4)
	ch := bus.Subscribe(EventLog)
	bus.Close()

	bus.PublishLog(InfoLevel, "late", nil)

	if _, open := <-ch; open {
		t.Error("channel still open after Close")
	}
}
