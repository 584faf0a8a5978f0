package view

import (
	"sync"
	"time"
)

// Unmounter is implemented by screen registries so a visitor's screens can be
// torn down together, whatever their payload type.
type Unmounter interface {
	Drop(visitor string)
	Sweep(maxIdle time.Duration) int
}

type screenEntry[T any] struct {
	res      *Resource[T]
	lastUsed time.Time
}

// Screens keeps one Resource per visitor and screen input for a single screen
// kind. The key names what the screen shows (a meal id, a search query), so
// two pages showing different things never share a state.
type Screens[T any] struct {
	mu      sync.Mutex
	entries map[string]map[string]*screenEntry[T]
	message MessageFunc
	now     func() time.Time
}

// NewScreens creates an empty registry whose resources use message
func NewScreens[T any](message MessageFunc) *Screens[T] {
	return &Screens[T]{
		entries: make(map[string]map[string]*screenEntry[T]),
		message: message,
		now:     time.Now,
	}
}

// Get returns the visitor's resource for key, mounting it on first use
func (s *Screens[T]) Get(visitor, key string) *Resource[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey, ok := s.entries[visitor]
	if !ok {
		byKey = make(map[string]*screenEntry[T])
		s.entries[visitor] = byKey
	}
	e, ok := byKey[key]
	if !ok {
		e = &screenEntry[T]{res: NewResource[T](s.message)}
		byKey[key] = e
	}
	e.lastUsed = s.now()
	return e.res
}

// Detached returns a resource that is not registered for any visitor
func (s *Screens[T]) Detached() *Resource[T] {
	return NewResource[T](s.message)
}

// Drop unmounts every resource of the visitor
func (s *Screens[T]) Drop(visitor string) {
	s.mu.Lock()
	byKey := s.entries[visitor]
	delete(s.entries, visitor)
	s.mu.Unlock()
	for _, e := range byKey {
		e.res.Unmount()
	}
}

// Sweep unmounts resources not used within maxIdle and returns how many it dropped
func (s *Screens[T]) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	var stale []*Resource[T]
	for visitor, byKey := range s.entries {
		for k, e := range byKey {
			if e.lastUsed.Before(cutoff) {
				stale = append(stale, e.res)
				delete(byKey, k)
			}
		}
		if len(byKey) == 0 {
			delete(s.entries, visitor)
		}
	}
	s.mu.Unlock()

	for _, r := range stale {
		r.Unmount()
	}
	return len(stale)
}

// Len reports the number of mounted resources
func (s *Screens[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, byKey := range s.entries {
		n += len(byKey)
	}
	return n
}
