package state

import (
	"sort"
	"sync"
)

// Slot is a mutex-guarded value that notifies subscribers on every Set.
//
// The zero value is ready to use and holds the zero value of T.
type Slot[T any] struct {
	mu     sync.Mutex
	value  T
	nextID int
	subs   map[int]func(T)
}

// NewSlot creates a [Slot] holding initial.
func NewSlot[T any](initial T) *Slot[T] {
	return &Slot[T]{value: initial}
}

// Get returns the current value.
func (s *Slot[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value and notifies subscribers in subscription order.
func (s *Slot[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	callbacks := s.snapshot()
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(v)
	}
}

// Subscribe registers fn to be called with every new value and returns a function that removes it.
//
// The returned function is safe to call more than once.
func (s *Slot[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs == nil {
		s.subs = make(map[int]func(T))
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Subscribers returns the number of registered callbacks.
func (s *Slot[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// snapshot copies the callbacks ordered by subscription. Callers hold s.mu.
func (s *Slot[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]func(T), len(ids))
	for i, id := range ids {
		out[i] = s.subs[id]
	}
	return out
}
