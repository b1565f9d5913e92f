// Package watch implements the change feed the store publishes to after
// every successful write. Subscribers get a coalesced pending set per
// collection, so a slow consumer never blocks a write and never misses a
// change, it only sees several writes folded into one wake-up.
package watch

import (
	"sync"
)

// Collection identifies one entity collection of the store.
type Collection string

const (
	Services       Collection = "services"
	Orders         Collection = "orders"
	Clients        Collection = "clients"
	PaymentMethods Collection = "payment_methods"
)

type Hub struct {
	mu   sync.Mutex
	subs map[uint64]*Subscription
	next uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*Subscription)}
}

// Subscribe registers interest in the given collections; with no arguments
// the subscription receives every collection.
func (h *Hub) Subscribe(cols ...Collection) *Subscription {
	s := &Subscription{
		hub:     h,
		pending: make(map[Collection]bool),
		sig:     make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	if len(cols) > 0 {
		s.cols = make(map[Collection]bool, len(cols))
		for _, c := range cols {
			s.cols[c] = true
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	s.id = h.next
	h.subs[s.id] = s
	return s
}

// Publish marks the collection changed on every matching subscription.
func (h *Hub) Publish(c Collection) {
	h.mu.Lock()
	subs := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		if s.cols == nil || s.cols[c] {
			subs = append(subs, s)
		}
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.notify(c)
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// Subscription is one registered consumer of the change feed.
type Subscription struct {
	hub  *Hub
	id   uint64
	cols map[Collection]bool

	mu      sync.Mutex
	pending map[Collection]bool

	sig  chan struct{}
	done chan struct{}
	once sync.Once
}

func (s *Subscription) notify(c Collection) {
	s.mu.Lock()
	s.pending[c] = true
	s.mu.Unlock()
	select {
	case s.sig <- struct{}{}:
	default:
	}
}

// Wait returns a channel that fires when at least one change is pending.
func (s *Subscription) Wait() <-chan struct{} {
	return s.sig
}

// Drain returns the pending changed collections and clears them.
func (s *Subscription) Drain() []Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	cols := make([]Collection, 0, len(s.pending))
	for c := range s.pending {
		cols = append(cols, c)
	}
	s.pending = make(map[Collection]bool)
	return cols
}

// Done is closed when the subscription is cancelled.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Cancel releases the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s.id)
		close(s.done)
	})
}
