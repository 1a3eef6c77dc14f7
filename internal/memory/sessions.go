package memory

import (
	"sync"
	"time"
)

// Session is one active conversation identified by a caller-supplied ID.
type Session struct {
	ID           string
	CreatedAt    time.Time
	LastActiveAt time.Time
	Conversation *Conversation

	// mu serializes Conversation access between turn handling and
	// background snapshot readers. Turn handlers hold it for the whole
	// turn; readers hold it briefly.
	mu sync.Mutex
}

// Lock acquires the session's conversation lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session's conversation lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionStore manages session lifecycle. Implementations must be safe for
// concurrent use; the conversations they hand out are not (see Conversation).
type SessionStore interface {
	// GetOrCreate returns an existing session or creates a new one.
	// The bool return indicates whether the session was newly created.
	GetOrCreate(id string) (*Session, bool)

	// Get returns the session for the given ID, or nil if none exists.
	Get(id string) *Session

	// Touch updates the session's LastActiveAt timestamp.
	Touch(id string)

	// Delete removes the session for the given ID.
	Delete(id string)

	// Prune removes sessions idle longer than maxIdle and returns the
	// number of sessions pruned.
	Prune(maxIdle time.Duration) int

	// Len returns the number of active sessions.
	Len() int

	// Range calls fn for each session. If fn returns false, iteration stops.
	Range(fn func(id string, s *Session) bool)
}

// InMemorySessionStore is a thread-safe, in-memory SessionStore.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	config   Config
}

// NewInMemorySessionStore creates an empty session store. New conversations
// are created with cfg.
func NewInMemorySessionStore(cfg Config) *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]*Session),
		config:   cfg,
	}
}

// Compile-time interface check.
var _ SessionStore = (*InMemorySessionStore)(nil)

// GetOrCreate returns an existing session or creates a new one.
func (s *InMemorySessionStore) GetOrCreate(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess, false
	}

	now := time.Now()
	sess := &Session{
		ID:           id,
		CreatedAt:    now,
		LastActiveAt: now,
		Conversation: NewConversation(s.config),
	}
	s.sessions[id] = sess
	return sess, true
}

// Get returns the session for the given ID, or nil.
func (s *InMemorySessionStore) Get(id string) *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[id]
}

// Touch updates the session's LastActiveAt timestamp.
func (s *InMemorySessionStore) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.LastActiveAt = time.Now()
	}
}

// Delete removes the session for the given ID.
func (s *InMemorySessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Prune removes sessions idle longer than maxIdle.
func (s *InMemorySessionStore) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	pruned := 0
	for id, sess := range s.sessions {
		if sess.LastActiveAt.Before(cutoff) {
			delete(s.sessions, id)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of active sessions.
func (s *InMemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Range calls fn for each session until fn returns false.
func (s *InMemorySessionStore) Range(fn func(id string, sess *Session) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, sess := range s.sessions {
		if !fn(id, sess) {
			return
		}
	}
}
