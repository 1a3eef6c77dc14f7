package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/solacelabs/solace/internal/recall"
)

// journalStore implements recall.JournalStore backed by SQLite.
type journalStore struct {
	db *sql.DB
}

// Compile-time interface check.
var _ recall.JournalStore = (*journalStore)(nil)

// Add stores entry, assigning an ID and timestamp when absent.
func (s *journalStore) Add(ctx context.Context, entry recall.JournalEntry) (recall.JournalEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	keyPoints, err := json.Marshal(entry.KeyPoints)
	if err != nil {
		return recall.JournalEntry{}, fmt.Errorf("sqlite: marshal key points: %w", err)
	}
	developments, err := json.Marshal(entry.Developments)
	if err != nil {
		return recall.JournalEntry{}, fmt.Errorf("sqlite: marshal developments: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries
			(id, start_mood, end_mood, summary, key_points, developments,
			 user_feedback, interpretation, turn_count, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.StartMood, entry.EndMood, entry.Summary,
		string(keyPoints), string(developments),
		entry.UserFeedback, entry.Interpretation, entry.TurnCount,
		entry.Timestamp.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return recall.JournalEntry{}, fmt.Errorf("sqlite: insert journal entry: %w", err)
	}

	return entry, nil
}

// Recent returns up to n entries, newest-first. n <= 0 returns all.
func (s *journalStore) Recent(ctx context.Context, n int) ([]recall.JournalEntry, error) {
	if n <= 0 {
		n = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_mood, end_mood, summary, key_points, developments,
		       user_feedback, interpretation, turn_count, timestamp
		FROM journal_entries ORDER BY timestamp DESC LIMIT ?`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent journal entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []recall.JournalEntry
	for rows.Next() {
		var (
			entry        recall.JournalEntry
			keyPoints    string
			developments string
			ts           string
		)
		if err := rows.Scan(
			&entry.ID, &entry.StartMood, &entry.EndMood, &entry.Summary,
			&keyPoints, &developments,
			&entry.UserFeedback, &entry.Interpretation, &entry.TurnCount, &ts,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan journal entry: %w", err)
		}

		if keyPoints != "" && keyPoints != "null" {
			if err := json.Unmarshal([]byte(keyPoints), &entry.KeyPoints); err != nil {
				return nil, fmt.Errorf("sqlite: unmarshal key points: %w", err)
			}
		}
		if developments != "" && developments != "null" {
			if err := json.Unmarshal([]byte(developments), &entry.Developments); err != nil {
				return nil, fmt.Errorf("sqlite: unmarshal developments: %w", err)
			}
		}

		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse timestamp %q: %w", ts, err)
		}
		entry.Timestamp = parsed

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: scan journal rows: %w", err)
	}
	return entries, nil
}

// Delete removes an entry by ID.
func (s *journalStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM journal_entries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("sqlite: delete journal entry: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if n == 0 {
		return recall.ErrEntryNotFound
	}
	return nil
}

// Stats aggregates mood movement across all entries.
func (s *journalStore) Stats(ctx context.Context) (recall.JournalStats, error) {
	var (
		total     int
		avgStart  sql.NullFloat64
		avgEnd    sql.NullFloat64
		avgChange sql.NullFloat64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       AVG(start_mood),
		       AVG(end_mood),
		       AVG(end_mood - start_mood)
		FROM journal_entries`,
	).Scan(&total, &avgStart, &avgEnd, &avgChange)
	if err != nil {
		return recall.JournalStats{}, fmt.Errorf("sqlite: journal stats: %w", err)
	}

	if total == 0 {
		return recall.JournalStats{}, nil
	}
	return recall.JournalStats{
		TotalEntries:       total,
		AverageStartMood:   round1(avgStart.Float64),
		AverageEndMood:     round1(avgEnd.Float64),
		AverageImprovement: round1(avgChange.Float64),
	}, nil
}

// Len returns the number of stored entries.
func (s *journalStore) Len(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM journal_entries").Scan(&count); err != nil {
		return 0, fmt.Errorf("sqlite: count journal entries: %w", err)
	}
	return count, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
