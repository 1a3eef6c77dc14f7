// Package recall manages what the companion remembers about the user across
// sessions: atomic facts extracted from conversations and journal entries
// from past sessions, plus the formatting that turns both into bounded
// context blocks for prompt injection.
package recall

import (
	"context"
	"strings"
	"time"
)

// FactType classifies an atomic remembered datum.
type FactType string

// FactType constants.
const (
	FactPerson FactType = "person"
	FactPlace  FactType = "place"
	FactThing  FactType = "thing"
	FactEvent  FactType = "event"
	FactMood   FactType = "mood"
	FactAction FactType = "action"
	FactDate   FactType = "date"
)

// Valid reports whether t is one of the known fact types.
func (t FactType) Valid() bool {
	switch t {
	case FactPerson, FactPlace, FactThing, FactEvent, FactMood, FactAction, FactDate:
		return true
	}
	return false
}

// Importance ranks how much a fact matters for prompt inclusion.
type Importance string

// Importance constants.
const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// Weight returns the numeric sort weight (high=3, medium=2, low=1).
// Unknown values weigh the same as low.
func (i Importance) Weight() int {
	switch i {
	case ImportanceHigh:
		return 3
	case ImportanceMedium:
		return 2
	default:
		return 1
	}
}

// Fact is an atomic remembered datum about the user.
type Fact struct {
	ID             string     `json:"id"`
	Type           FactType   `json:"type"`
	Content        string     `json:"content"`
	Context        string     `json:"context,omitempty"`
	Importance     Importance `json:"importance"`
	Timestamp      time.Time  `json:"timestamp"`
	LastReferenced time.Time  `json:"last_referenced,omitzero"`
}

// Key returns the case-insensitive identity used for deduplication.
// Two facts with the same (type, content) pair are the same fact.
func (f Fact) Key() string {
	return string(f.Type) + "\x00" + strings.ToLower(f.Content)
}

// FactStore holds remembered facts. Implementations must be safe for
// concurrent use.
//
// Save enforces the dedupe invariant: inserting a fact whose (type, content)
// matches an existing record case-insensitively updates that record's
// LastReferenced timestamp instead of creating a new one.
type FactStore interface {
	Save(ctx context.Context, fact Fact) (Fact, error)
	Recent(ctx context.Context, limit int) ([]Fact, error)
	ByType(ctx context.Context, t FactType) ([]Fact, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
}
