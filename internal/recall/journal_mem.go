package recall

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEntryNotFound indicates the requested journal entry does not exist.
var ErrEntryNotFound = errors.New("recall: journal entry not found")

// InMemoryJournalStore is a thread-safe, in-memory implementation of
// JournalStore. Entries are kept newest-first.
type InMemoryJournalStore struct {
	mu      sync.RWMutex
	entries []JournalEntry
}

// NewInMemoryJournalStore creates an empty journal store.
func NewInMemoryJournalStore() *InMemoryJournalStore {
	return &InMemoryJournalStore{}
}

// Compile-time interface check.
var _ JournalStore = (*InMemoryJournalStore)(nil)

// Add stores an entry, assigning an ID and timestamp when missing.
func (s *InMemoryJournalStore) Add(_ context.Context, entry JournalEntry) (JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	s.entries = append([]JournalEntry{entry}, s.entries...)
	return entry, nil
}

// Recent returns up to n entries, newest-first.
func (s *InMemoryJournalStore) Recent(_ context.Context, n int) ([]JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || n > len(s.entries) {
		n = len(s.entries)
	}
	out := make([]JournalEntry, n)
	copy(out, s.entries[:n])
	return out, nil
}

// Delete removes an entry by ID.
func (s *InMemoryJournalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// Stats aggregates mood movement across all entries.
func (s *InMemoryJournalStore) Stats(_ context.Context) (JournalStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return computeStats(s.entries), nil
}

// Len returns the number of stored entries.
func (s *InMemoryJournalStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}
