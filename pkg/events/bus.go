// Package events provides a small in-process publish/subscribe bus for
// debug and telemetry events. Components receive the bus by injection;
// nothing here hooks global runtime state. Dispatch is synchronous so
// per-frame events arrive in order.
package events

import (
	"sync"
	"time"
)

// Topic names a category of events.
type Topic string

const (
	TopicGesture      Topic = "gesture"
	TopicManipulation Topic = "manipulation"
	TopicTwoHanded    Topic = "twohanded"
	TopicHaptics      Topic = "haptics"
	TopicSession      Topic = "session"
)

// Event is one published occurrence.
type Event struct {
	Topic Topic
	Time  time.Time
	Data  any
}

// Handler receives published events. Handlers run on the publisher's
// goroutine and must not block.
type Handler func(Event)

// Bus is a topic-keyed subscriber registry. A nil *Bus is valid and
// drops everything, so components never special-case a missing bus.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[Topic]map[int]Handler
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic]map[int]Handler)}
}

// Subscribe registers a handler for a topic and returns an unsubscribe
// function. Unsubscribing twice is a no-op.
func (b *Bus) Subscribe(topic Topic, h Handler) func() {
	if b == nil || h == nil {
		return func() {}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]Handler)
	}
	b.subs[topic][id] = h
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish delivers data to every subscriber of the topic.
func (b *Bus) Publish(topic Topic, data any) {
	if b == nil {
		return
	}
	ev := Event{Topic: topic, Time: time.Now(), Data: data}
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()
	for _, h := range handlers {
		h(ev)
	}
}

// SubscriberCount reports how many handlers a topic has, for tests and
// the dashboard status endpoint.
func (b *Bus) SubscriberCount(topic Topic) int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
