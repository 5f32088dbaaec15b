package events

import (
	"context"
	"sync"
)

// Topic names a change notification. Notifications carry no payload; observers re-read state.
type Topic string

const (
	TopicCartChanged      Topic = "cart.changed"
	TopicFavoritesChanged Topic = "favorites.changed"
)

// Handler is invoked synchronously on Publish.
type Handler func(ctx context.Context, topic Topic)

type subscription struct {
	id uint64
	fn Handler
}

// Bus delivers notifications to subscribers in registration order.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: map[Topic][]subscription{}}
}

// Subscribe registers fn for topic and returns a func that removes it. Calling it twice is harmless.
func (b *Bus) Subscribe(topic Topic, fn Handler) func() {
	if fn == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(topic, id) })
	}
}

func (b *Bus) unsubscribe(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	current := b.subs[topic]
	kept := make([]subscription, 0, len(current))
	for _, sub := range current {
		if sub.id != id {
			kept = append(kept, sub)
		}
	}
	if len(kept) == 0 {
		delete(b.subs, topic)
		return
	}
	b.subs[topic] = kept
}

// Publish calls every handler for topic. Handlers may subscribe or unsubscribe without deadlocking.
func (b *Bus) Publish(ctx context.Context, topic Topic) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[topic]))
	for _, sub := range b.subs[topic] {
		handlers = append(handlers, sub.fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx, topic)
	}
}

// Len reports the number of subscribers for topic.
func (b *Bus) Len(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
