// Package events provides in-process fire-and-forget notifications so
// other parts of the system can react to completed imports.
package events

import "sync"

// ImportCompleted is broadcast after an import finishes without a
// structural failure.
type ImportCompleted struct {
	SuccessCount int
	UpdateCount  int
	Source       string
}

const subscriberBuffer = 16

// Bus fans ImportCompleted events out to subscribers. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu          sync.Mutex
	subscribers []chan ImportCompleted
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a new listener and returns its channel.
func (b *Bus) Subscribe() <-chan ImportCompleted {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan ImportCompleted, subscriberBuffer)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Unsubscribe removes a listener and closes its channel. Unknown
// channels are ignored.
func (b *Bus) Unsubscribe(ch <-chan ImportCompleted) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subscribers {
		if sub == ch {
			b.subscribers = append(b.subscribers[:i], b.subscribers[i+1:]...)
			close(sub)
			return
		}
	}
}

// Publish delivers the event to every subscriber that can accept it.
func (b *Bus) Publish(event ImportCompleted) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}
