package store

import (
	"sync"

	"cloudtalk/internal/models"
)

// Store holds the last-known-good document plus the snapshot it replaced.
// It is the single source of truth for reads; every writer converges on
// Replace, which is the engine's sole synchronization point.
type Store struct {
	mu       sync.RWMutex
	loaded   bool
	current  models.Document
	previous models.Document
	hasPrev  bool
}

// New creates an empty, not-yet-loaded store.
func New() *Store {
	return &Store{}
}

// Loaded reports whether an initial document has ever been stored.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Current returns a deep copy of the latest known document. The second
// return is false before the initial load.
func (s *Store) Current() (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return models.Document{}, false
	}
	return s.current.Clone(), true
}

// Previous returns a deep copy of the document that the latest Replace
// displaced, for exactly one diff cycle worth of history.
func (s *Store) Previous() (models.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasPrev {
		return models.Document{}, false
	}
	return s.previous.Clone(), true
}

// Replace atomically swaps in doc, retaining the prior value as Previous.
// The store keeps its own copy, so callers may keep mutating their argument
// without aliasing stored state.
func (s *Store) Replace(doc models.Document) {
	clone := doc.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		s.previous = s.current
		s.hasPrev = true
	}
	s.current = clone
	s.loaded = true
}
