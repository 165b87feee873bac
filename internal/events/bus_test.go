package events

import "testing"

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	first := bus.Subscribe()
	second := bus.Subscribe()

	bus.Publish(ImportCompleted{SuccessCount: 3, UpdateCount: 1, Source: "contacts"})

	for _, ch := range []<-chan ImportCompleted{first, second} {
		select {
		case event := <-ch:
			if event.SuccessCount != 3 || event.UpdateCount != 1 || event.Source != "contacts" {
				t.Fatalf("unexpected event: %+v", event)
			}
		default:
			t.Fatalf("expected event to be delivered")
		}
	}
}

func TestBusUnsubscribeClosesChannelAndStopsDelivery(t *testing.T) {
	bus := NewBus()
	departed := bus.Subscribe()
	staying := bus.Subscribe()

	bus.Unsubscribe(departed)
	bus.Publish(ImportCompleted{SuccessCount: 1, Source: "contacts"})

	if _, ok := <-departed; ok {
		t.Fatalf("unsubscribed channel should be closed without events")
	}
	select {
	case event := <-staying:
		if event.SuccessCount != 1 {
			t.Fatalf("unexpected event: %+v", event)
		}
	default:
		t.Fatalf("remaining subscriber should still receive events")
	}

	// Unknown channels are a no-op.
	bus.Unsubscribe(make(chan ImportCompleted))
}

func TestBusPublishNeverBlocks(t *testing.T) {
	bus := NewBus()
	bus.Subscribe() // never drained

	// More events than the subscriber buffer holds; the excess drops.
	for i := 0; i < subscriberBuffer*2; i++ {
		bus.Publish(ImportCompleted{Source: "contacts"})
	}
}
