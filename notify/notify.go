// Package notify is a small in-process fan-out of "this position
// changed" events, adapted from the teacher's WebhookDispatcher: a
// bounded queue drained by a fixed worker pool. Where the teacher POSTs
// each change to a registered HTTP webhook — network access spec.md
// rules out — this notifier calls a registered Go function directly, so
// an embedder can react to recomputation (repaint a UI, bust an
// external cache) without ever being handed a mutable Cell or Sheet
// handle mid-mutation.
package notify

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mpetrenko/cellsheet/position"
)

// Notifier fans position-changed events out to subscribers on a fixed
// worker pool. The zero value is not usable; construct one with New.
type Notifier struct {
	queue chan position.Position
	done  chan struct{}

	mu          sync.RWMutex
	subscribers map[uuid.UUID]func(position.Position)

	closeOnce sync.Once
}

// New starts workers goroutines draining a queue of size queueSize.
// Both are clamped to at least 1.
func New(workers, queueSize int) *Notifier {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	n := &Notifier{
		queue:       make(chan position.Position, queueSize),
		done:        make(chan struct{}),
		subscribers: make(map[uuid.UUID]func(position.Position)),
	}

	for i := 0; i < workers; i++ {
		go n.runWorker()
	}

	return n
}

// Subscribe registers fn to be called (on a worker goroutine, not the
// caller's) whenever a position is enqueued. The returned func removes
// the subscription.
func (n *Notifier) Subscribe(fn func(position.Position)) (unsubscribe func()) {
	id := uuid.New()

	n.mu.Lock()
	n.subscribers[id] = fn
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		delete(n.subscribers, id)
		n.mu.Unlock()
	}
}

// Enqueue schedules pos for asynchronous delivery to every current
// subscriber. If the queue is already full, the oldest pending
// notification is dropped (and reported) to keep the mutating caller
// from ever blocking on a slow subscriber.
func (n *Notifier) Enqueue(pos position.Position) {
	select {
	case n.queue <- pos:
		return
	default:
	}

	select {
	case dropped := <-n.queue:
		fmt.Printf("notify: queue full, dropping pending notification for %s\n", dropped)
	default:
	}

	select {
	case n.queue <- pos:
	default:
	}
}

func (n *Notifier) runWorker() {
	for {
		select {
		case pos, ok := <-n.queue:
			if !ok {
				return
			}
			n.dispatch(pos)
		case <-n.done:
			return
		}
	}
}

func (n *Notifier) dispatch(pos position.Position) {
	n.mu.RLock()
	subscribers := make([]func(position.Position), 0, len(n.subscribers))
	for _, fn := range n.subscribers {
		subscribers = append(subscribers, fn)
	}
	n.mu.RUnlock()

	for _, fn := range subscribers {
		fn(pos)
	}
}

// Close stops the worker pool. Safe to call more than once.
func (n *Notifier) Close() {
	n.closeOnce.Do(func() { close(n.done) })
}
