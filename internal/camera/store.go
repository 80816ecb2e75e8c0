package camera

import (
	"sort"
	"sync"
)

// Event is the change notification emitted by a Store after a write
// completes. Value is the full stored value, never a delta.
type Event[T any] struct {
	ID    string
	Value T
}

// Store is a keyed in-memory cache with synchronous change notification.
//
// Writes replace the whole value for a key; a concurrent read returns either
// the previous or the new complete value, never a partial one. Observers run
// synchronously on the writer's goroutine, after the value is visible to
// readers, in registration order.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - Subscribe is intended for startup wiring; observers registered after
//     writes have begun may miss earlier events.
type Store[T any] struct {
	mu        sync.RWMutex
	items     map[string]T
	observers []func(Event[T])
}

// NewStore creates an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

// Subscribe registers an observer for every subsequent notifying write.
func (s *Store[T]) Subscribe(fn func(Event[T])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Put stores v under id and emits exactly one event. Observers fire after
// the lock is released, so two concurrent writers of the same key may
// deliver their events in the opposite order of the stored writes.
func (s *Store[T]) Put(id string, v T) {
	s.mu.Lock()
	s.items[id] = v
	observers := s.observers
	s.mu.Unlock()

	for _, fn := range observers {
		fn(Event[T]{ID: id, Value: v})
	}
}

// PutQuiet stores v under id without notifying observers. Used when
// completing a record whose insert was already announced.
func (s *Store[T]) PutQuiet(id string, v T) {
	s.mu.Lock()
	s.items[id] = v
	s.mu.Unlock()
}

// Get returns the value for id and whether it exists.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[id]
	return v, ok
}

// IDs returns every stored key in sorted order.
func (s *Store[T]) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns every stored value ordered by key.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.items[id])
	}
	return out
}

// Len returns the number of stored values.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
