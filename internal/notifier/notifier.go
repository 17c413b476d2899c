// Package notifier implements the change fan-out for the catalog.
//
// Mutating operations publish a payload-free "catalog changed" event; the
// notifier drains those events off its own channel and forwards a signal to
// every observer registered at that moment. Observers carry no state about
// what changed and are expected to re-fetch the book list.
//
// Publishing is fire-and-forget: the fan-out runs on the notifier's own
// goroutine, so a broadcast may reach an observer before the HTTP response
// of the mutation that caused it.
package notifier

import (
	"context"
	"sync"
)

const (
	// eventBuffer bounds pending, not-yet-fanned-out change events.
	// Events carry no payload, so coalescing under pressure is harmless.
	eventBuffer = 64

	// observerBuffer bounds undelivered signals per observer. An observer
	// that falls further behind misses signals rather than blocking the
	// fan-out loop.
	observerBuffer = 8
)

// Observer is a handle returned by Subscribe. Signals arrive on C until the
// observer is unsubscribed, at which point C is closed.
type Observer struct {
	C <-chan struct{}

	signals chan struct{}
}

// Notifier owns the observer registry and the event channel mutations
// publish into. Subscribe, Unsubscribe and Publish are safe for concurrent
// use from any goroutine.
type Notifier struct {
	mu        sync.Mutex
	observers map[*Observer]struct{}
	events    chan struct{}
}

func New() *Notifier {
	return &Notifier{
		observers: make(map[*Observer]struct{}),
		events:    make(chan struct{}, eventBuffer),
	}
}

// Subscribe registers a new observer. The observer receives every broadcast
// triggered after registration; there is no replay of earlier events.
func (n *Notifier) Subscribe() *Observer {
	obs := &Observer{signals: make(chan struct{}, observerBuffer)}
	obs.C = obs.signals

	n.mu.Lock()
	n.observers[obs] = struct{}{}
	n.mu.Unlock()

	return obs
}

// Unsubscribe removes an observer and closes its signal channel. It is
// idempotent: unsubscribing an already-removed observer is a no-op, so the
// read and write sides of a connection may both call it on teardown.
func (n *Notifier) Unsubscribe(obs *Observer) {
	n.mu.Lock()
	_, registered := n.observers[obs]
	delete(n.observers, obs)
	n.mu.Unlock()

	if registered {
		close(obs.signals)
	}
}

// Publish enqueues a change event for fan-out. It never blocks: when the
// event buffer is full the event is dropped, which is safe because a
// pending event already guarantees observers will be signalled.
func (n *Notifier) Publish() {
	select {
	case n.events <- struct{}{}:
	default:
	}
}

// Run drains published events and fans each one out to all currently
// registered observers. It returns when ctx is cancelled. Delivery to one
// observer never blocks on or fails because of another: a full observer
// buffer means that observer simply misses the signal.
func (n *Notifier) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-n.events:
			n.broadcast()
		}
	}
}

func (n *Notifier) broadcast() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for obs := range n.observers {
		select {
		case obs.signals <- struct{}{}:
		default:
		}
	}
}

// ObserverCount reports how many observers are currently registered.
func (n *Notifier) ObserverCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.observers)
}
