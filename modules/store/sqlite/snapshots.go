package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/solacelabs/solace/internal/memory"
)

// ErrSnapshotNotFound indicates no snapshot exists for the session.
var ErrSnapshotNotFound = errors.New("sqlite: snapshot not found")

// SnapshotStore persists per-session memory state as JSON documents so
// conversations survive a process restart.
type SnapshotStore struct {
	db *sql.DB
}

// SaveSnapshot upserts the session's memory state.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, sessionID string, state memory.State) error {
	if sessionID == "" {
		return errors.New("sqlite: session ID is required")
	}

	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("sqlite: marshal snapshot: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO session_snapshots (session_id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at`,
		sessionID, string(doc), time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("sqlite: save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the session's persisted memory state.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, sessionID string) (memory.State, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT state FROM session_snapshots WHERE session_id = ?", sessionID,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return memory.State{}, ErrSnapshotNotFound
	}
	if err != nil {
		return memory.State{}, fmt.Errorf("sqlite: load snapshot: %w", err)
	}

	var state memory.State
	if err := json.Unmarshal([]byte(doc), &state); err != nil {
		return memory.State{}, fmt.Errorf("sqlite: unmarshal snapshot: %w", err)
	}
	return state, nil
}

// DeleteSnapshot removes the session's persisted state. Deleting a missing
// snapshot is not an error.
func (s *SnapshotStore) DeleteSnapshot(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM session_snapshots WHERE session_id = ?", sessionID,
	); err != nil {
		return fmt.Errorf("sqlite: delete snapshot: %w", err)
	}
	return nil
}

// SessionIDs lists sessions that have a persisted snapshot.
func (s *SnapshotStore) SessionIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT session_id FROM session_snapshots ORDER BY session_id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scan snapshot id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: scan snapshot rows: %w", err)
	}
	return ids, nil
}
