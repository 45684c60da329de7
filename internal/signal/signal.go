// Package signal implements a last-value broadcast: many subscribers, one
// retained current value that late subscribers receive immediately. It backs
// the reactive current-user and balance streams the UI layer listens to,
// independent of the ledger's own locking.
package signal

import "sync"

// Signal broadcasts values of type T to all subscribers and retains the most
// recent one. A subscriber that cannot keep up only ever loses intermediate
// values, never the latest.
type Signal[T any] struct {
	mu     sync.Mutex
	has    bool
	last   T
	subs   map[int]chan T
	nextID int
}

func New[T any]() *Signal[T] {
	return &Signal[T]{subs: make(map[int]chan T)}
}

// NewWith creates a signal already holding an initial value.
func NewWith[T any](initial T) *Signal[T] {
	s := New[T]()
	s.has = true
	s.last = initial
	return s
}

// Set stores v as the current value and fans it out. Delivery never blocks:
// a full subscriber buffer has its stale value replaced by v.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.has = true
	s.last = v
	for _, ch := range s.subs {
		send(ch, v)
	}
}

// Get returns the retained value, ok=false if Set has never been called.
func (s *Signal[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.has
}

// Subscribe registers a new listener. If a value has already been set it is
// delivered on the returned channel right away. The cancel func removes the
// subscription and closes the channel.
func (s *Signal[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan T, 1)
	s.subs[id] = ch
	if s.has {
		send(ch, s.last)
	}

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// send replaces the buffered value when the subscriber has not drained it.
func send[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}
