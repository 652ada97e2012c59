package events

import "testing"

func TestPublishOrder(t *testing.T) {
	bus := NewBus[OverlayChanged]()

	var got []string
	bus.Subscribe(func(e OverlayChanged) { got = append(got, "first:"+e.Overlay) })
	bus.Subscribe(func(e OverlayChanged) { got = append(got, "second:"+e.Overlay) })

	bus.Publish(OverlayChanged{Page: "home", Overlay: "project-modal", Open: true})

	if len(got) != 2 || got[0] != "first:project-modal" || got[1] != "second:project-modal" {
		t.Fatalf("Unexpected delivery: %v", got)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus[PlaybackChanged]()

	count := 0
	unsubscribe := bus.Subscribe(func(PlaybackChanged) { count++ })
	bus.Publish(PlaybackChanged{Player: "a", Playing: true})

	unsubscribe()
	unsubscribe()
	bus.Publish(PlaybackChanged{Player: "a", Playing: false})

	if count != 1 {
		t.Fatalf("Handler called %d times, expected 1", count)
	}
	if bus.Len() != 0 {
		t.Fatalf("Bus still has %d handlers", bus.Len())
	}
}

func TestPublishFromHandler(t *testing.T) {
	bus := NewBus[PlaybackChanged]()

	var seen []string
	bus.Subscribe(func(e PlaybackChanged) {
		seen = append(seen, e.Player)
		if e.Player == "a" {
			bus.Publish(PlaybackChanged{Player: "b"})
		}
	})

	bus.Publish(PlaybackChanged{Player: "a"})
	if len(seen) != 2 || seen[1] != "b" {
		t.Fatalf("Nested publish not delivered: %v", seen)
	}
}
