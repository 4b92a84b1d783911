package events

import (
	"testing"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := New()

	var got []Event
	b.Subscribe(TopicGesture, func(ev Event) {
		got = append(got, ev)
	})

	b.Publish(TopicGesture, "payload")
	if len(got) != 1 {
		t.Fatalf("events: %d", len(got))
	}
	if got[0].Topic != TopicGesture || got[0].Data != "payload" {
		t.Errorf("event: %+v", got[0])
	}
	if got[0].Time.IsZero() {
		t.Error("time not stamped")
	}
}

func TestTopicsAreIsolated(t *testing.T) {
	b := New()

	var gestures, manips int
	b.Subscribe(TopicGesture, func(Event) { gestures++ })
	b.Subscribe(TopicManipulation, func(Event) { manips++ })

	b.Publish(TopicGesture, nil)
	b.Publish(TopicGesture, nil)
	b.Publish(TopicManipulation, nil)

	if gestures != 2 || manips != 1 {
		t.Errorf("counts: gestures=%d manips=%d", gestures, manips)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New()

	var count int
	unsub := b.Subscribe(TopicSession, func(Event) { count++ })

	b.Publish(TopicSession, nil)
	unsub()
	b.Publish(TopicSession, nil)
	unsub() // second call is a no-op

	if count != 1 {
		t.Errorf("count: %d", count)
	}
	if b.SubscriberCount(TopicSession) != 0 {
		t.Errorf("subscribers: %d", b.SubscriberCount(TopicSession))
	}
}

func TestNilBusDropsEverything(t *testing.T) {
	var b *Bus

	unsub := b.Subscribe(TopicHaptics, func(Event) { t.Error("handler on nil bus") })
	b.Publish(TopicHaptics, nil)
	unsub()

	if b.SubscriberCount(TopicHaptics) != 0 {
		t.Error("nil bus reported subscribers")
	}
}

func TestNilHandlerIgnored(t *testing.T) {
	b := New()
	b.Subscribe(TopicGesture, nil)
	b.Publish(TopicGesture, nil) // must not panic
	if b.SubscriberCount(TopicGesture) != 0 {
		t.Errorf("subscribers: %d", b.SubscriberCount(TopicGesture))
	}
}
