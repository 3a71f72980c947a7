// Package broadcast provides a fan-out primitive for Go that plays the role
// of Rust's tokio::sync::broadcast, which has no direct stdlib equivalent:
// many independent subscribers, each with its own bounded buffer, lagging
// subscribers drop messages rather than block the publisher.
package broadcast

import "sync"

// DropHandler is invoked whenever a subscriber's buffer is full and a
// message had to be dropped for it.
type DropHandler func(subscriberIndex int)

// Broadcaster fans a single stream of values out to any number of
// subscribers. Each subscriber receives on its own buffered channel; a full
// channel causes that subscriber (and only that subscriber) to miss the
// value, mirroring broadcast-channel lag semantics.
type Broadcaster[T any] struct {
	mu          sync.RWMutex
	subscribers []chan T
	bufferSize  int
	onDrop      DropHandler
}

// New creates a Broadcaster whose subscriber channels are each sized
// bufferSize.
func New[T any](bufferSize int) *Broadcaster[T] {
	return &Broadcaster[T]{bufferSize: bufferSize}
}

// OnDrop installs a callback invoked when a subscriber misses a value
// because its buffer was full.
func (b *Broadcaster[T]) OnDrop(handler DropHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onDrop = handler
}

// Subscribe registers a new, immediately-live receiver — the Go analogue of
// tokio's Sender::subscribe()/Receiver::resubscribe().
func (b *Broadcaster[T]) Subscribe() <-chan T {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan T, b.bufferSize)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Send fans value out to every current subscriber without blocking. A
// subscriber whose buffer is full misses this value.
func (b *Broadcaster[T]) Send(value T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, ch := range b.subscribers {
		select {
		case ch <- value:
		default:
			if b.onDrop != nil {
				b.onDrop(i)
			}
		}
	}
}

// Close closes every subscriber channel, signaling end-of-stream. Subsequent
// Subscribe calls still work but start from an empty subscriber list.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
