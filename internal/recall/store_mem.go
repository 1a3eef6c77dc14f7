package recall

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrFactNotFound indicates the requested fact does not exist.
var ErrFactNotFound = errors.New("recall: fact not found")

// DefaultMaxFacts caps the in-memory fact store; the oldest facts are
// evicted beyond the cap.
const DefaultMaxFacts = 50

// InMemoryFactStore is a thread-safe, in-memory implementation of FactStore.
// Facts are kept newest-first.
type InMemoryFactStore struct {
	mu       sync.RWMutex
	facts    []Fact
	byKey    map[string]int // dedupe key → index in facts
	maxFacts int
}

// NewInMemoryFactStore creates an empty fact store. maxFacts <= 0 uses
// DefaultMaxFacts.
func NewInMemoryFactStore(maxFacts int) *InMemoryFactStore {
	if maxFacts <= 0 {
		maxFacts = DefaultMaxFacts
	}
	return &InMemoryFactStore{
		byKey:    make(map[string]int),
		maxFacts: maxFacts,
	}
}

// Compile-time interface check.
var _ FactStore = (*InMemoryFactStore)(nil)

// Save stores a fact, assigning an ID and timestamps when missing.
// A duplicate (type, content) pair updates LastReferenced on the existing
// record instead of inserting.
func (s *InMemoryFactStore) Save(_ context.Context, fact Fact) (Fact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if idx, ok := s.byKey[fact.Key()]; ok {
		s.facts[idx].LastReferenced = now
		return s.facts[idx], nil
	}

	if fact.ID == "" {
		fact.ID = uuid.NewString()
	}
	if fact.Timestamp.IsZero() {
		fact.Timestamp = now
	}
	fact.LastReferenced = now

	s.facts = append([]Fact{fact}, s.facts...)
	if len(s.facts) > s.maxFacts {
		s.facts = s.facts[:s.maxFacts]
	}
	s.reindex()
	return fact, nil
}

// Recent returns up to limit facts, newest-first.
func (s *InMemoryFactStore) Recent(_ context.Context, limit int) ([]Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.facts) {
		limit = len(s.facts)
	}
	out := make([]Fact, limit)
	copy(out, s.facts[:limit])
	return out, nil
}

// ByType returns all facts of the given type, newest-first.
func (s *InMemoryFactStore) ByType(_ context.Context, t FactType) ([]Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Fact
	for _, f := range s.facts {
		if f.Type == t {
			out = append(out, f)
		}
	}
	return out, nil
}

// Delete removes a fact by ID.
func (s *InMemoryFactStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, f := range s.facts {
		if f.ID == id {
			s.facts = append(s.facts[:i], s.facts[i+1:]...)
			s.reindex()
			return nil
		}
	}
	return ErrFactNotFound
}

// Clear removes all facts.
func (s *InMemoryFactStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = nil
	s.byKey = make(map[string]int)
	return nil
}

// Len returns the number of stored facts.
func (s *InMemoryFactStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facts), nil
}

// reindex rebuilds the dedupe index after any structural change.
func (s *InMemoryFactStore) reindex() {
	s.byKey = make(map[string]int, len(s.facts))
	for i, f := range s.facts {
		s.byKey[f.Key()] = i
	}
}
