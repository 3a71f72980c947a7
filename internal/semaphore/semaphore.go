// Package semaphore provides a bounded-concurrency counting semaphore. It is
// deliberately separate from internal/ratelimit: a rate limiter paces
// throughput over time, while this bounds the number of requests in flight
// at once, which is what a request-handler pool needs.
package semaphore

import "context"

// Semaphore is a counting semaphore backed by a buffered channel.
type Semaphore struct {
	slots chan struct{}
}

// New creates a Semaphore with the given number of permits.
func New(permits int) *Semaphore {
	if permits < 1 {
		permits = 1
	}
	return &Semaphore{slots: make(chan struct{}, permits)}
}

// Acquire blocks until a permit is available or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryAcquire acquires a permit without blocking, reporting whether one was
// available.
func (s *Semaphore) TryAcquire() bool {
	select {
	case s.slots <- struct{}{}:
		return true
	default:
		return false
	}
}

// Release returns a permit to the pool.
func (s *Semaphore) Release() {
	<-s.slots
}
