package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/solacelabs/solace/internal/recall"
)

// factStore implements recall.FactStore backed by SQLite.
type factStore struct {
	db       *sql.DB
	maxFacts int
}

// Compile-time interface check.
var _ recall.FactStore = (*factStore)(nil)

// Save inserts fact, or bumps last_referenced on an existing fact with the
// same case-insensitive (type, content) identity. The stored fact is
// returned. Beyond the cap, the oldest facts are evicted.
func (s *factStore) Save(ctx context.Context, fact recall.Fact) (recall.Fact, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return recall.Fact{}, fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()

	var existing recall.Fact
	row := tx.QueryRowContext(ctx, `
		SELECT id, type, content, context, importance, timestamp, last_referenced
		FROM facts
		WHERE type = ? AND lower(content) = lower(?)`,
		string(fact.Type), fact.Content,
	)
	err = scanFact(row, &existing)
	switch {
	case err == nil:
		if _, err := tx.ExecContext(ctx,
			"UPDATE facts SET last_referenced = ? WHERE id = ?",
			now.Format(time.RFC3339Nano), existing.ID,
		); err != nil {
			return recall.Fact{}, fmt.Errorf("sqlite: touch fact: %w", err)
		}
		existing.LastReferenced = now
		if err := tx.Commit(); err != nil {
			return recall.Fact{}, fmt.Errorf("sqlite: commit: %w", err)
		}
		return existing, nil

	case errors.Is(err, sql.ErrNoRows):
		// New fact, insert below.

	default:
		return recall.Fact{}, fmt.Errorf("sqlite: lookup fact: %w", err)
	}

	fact.ID = uuid.NewString()
	if fact.Timestamp.IsZero() {
		fact.Timestamp = now
	}
	fact.LastReferenced = now
	if fact.Importance == "" {
		fact.Importance = recall.ImportanceMedium
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO facts (id, type, content, context, importance, timestamp, last_referenced)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fact.ID, string(fact.Type), fact.Content, fact.Context, string(fact.Importance),
		fact.Timestamp.UTC().Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
	); err != nil {
		return recall.Fact{}, fmt.Errorf("sqlite: insert fact: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM facts WHERE id IN (
			SELECT id FROM facts ORDER BY timestamp DESC LIMIT -1 OFFSET ?
		)`,
		s.maxFacts,
	); err != nil {
		return recall.Fact{}, fmt.Errorf("sqlite: evict facts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return recall.Fact{}, fmt.Errorf("sqlite: commit: %w", err)
	}
	return fact, nil
}

// Recent returns up to limit facts, newest-first. limit <= 0 returns all.
func (s *factStore) Recent(ctx context.Context, limit int) ([]recall.Fact, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, content, context, importance, timestamp, last_referenced
		FROM facts ORDER BY timestamp DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent facts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanFacts(rows)
}

// ByType returns all facts of the given type, newest-first.
func (s *factStore) ByType(ctx context.Context, t recall.FactType) ([]recall.Fact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, content, context, importance, timestamp, last_referenced
		FROM facts WHERE type = ? ORDER BY timestamp DESC`,
		string(t),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: facts by type: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanFacts(rows)
}

// Delete removes a fact by ID.
func (s *factStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM facts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete fact: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return recall.ErrFactNotFound
	}
	return nil
}

// Clear removes all facts.
func (s *factStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM facts"); err != nil {
		return fmt.Errorf("sqlite: clear facts: %w", err)
	}
	return nil
}

// Len returns the number of stored facts.
func (s *factStore) Len(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM facts").Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: count facts: %w", err)
	}
	return count, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFact(row scanner, fact *recall.Fact) error {
	var typ, importance, ts, lastRef string
	if err := row.Scan(&fact.ID, &typ, &fact.Content, &fact.Context, &importance, &ts, &lastRef); err != nil {
		return err
	}
	fact.Type = recall.FactType(typ)
	fact.Importance = recall.Importance(importance)

	parsed, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	fact.Timestamp = parsed

	if lastRef != "" {
		parsed, err := time.Parse(time.RFC3339Nano, lastRef)
		if err != nil {
			return fmt.Errorf("parse last_referenced %q: %w", lastRef, err)
		}
		fact.LastReferenced = parsed
	}
	return nil
}

func scanFacts(rows *sql.Rows) ([]recall.Fact, error) {
	var facts []recall.Fact
	for rows.Next() {
		var fact recall.Fact
		if err := scanFact(rows, &fact); err != nil {
			return nil, fmt.Errorf("sqlite: scan fact: %w", err)
		}
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: scan facts rows: %w", err)
	}
	return facts, nil
}
