package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/solacelabs/solace/internal/memory"
)

// SessionPruner is the subset of memory.SessionStore needed by the cleanup
// job.
type SessionPruner interface {
	Prune(maxIdle time.Duration) int
}

// SessionCleanupJob removes sessions that have been idle longer than MaxIdle.
type SessionCleanupJob struct {
	Store        SessionPruner
	MaxIdle      time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/5 * * * *"
}

// Compile-time interface check.
var _ Job = (*SessionCleanupJob)(nil)

// Name implements Job.
func (j *SessionCleanupJob) Name() string { return "session_cleanup" }

// Schedule implements Job.
func (j *SessionCleanupJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/5 * * * *"
}

// Run prunes sessions idle longer than MaxIdle.
func (j *SessionCleanupJob) Run(_ context.Context) error {
	pruned := j.Store.Prune(j.MaxIdle)
	if pruned > 0 {
		j.Logger.Info("cron: pruned idle sessions", "count", pruned)
	}
	return nil
}

// SnapshotWriter persists a session's memory state.
type SnapshotWriter interface {
	SaveSnapshot(ctx context.Context, sessionID string, state memory.State) error
}

// SnapshotJob periodically persists every active session's memory state so
// conversations survive a process restart.
type SnapshotJob struct {
	Sessions     memory.SessionStore
	Writer       SnapshotWriter
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/2 * * * *"
}

// Compile-time interface check.
var _ Job = (*SnapshotJob)(nil)

// Name implements Job.
func (j *SnapshotJob) Name() string { return "memory_snapshot" }

// Schedule implements Job.
func (j *SnapshotJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/2 * * * *"
}

// Run walks active sessions and writes each one's snapshot. The first
// write error aborts the walk so a broken store does not spam one error
// per session.
func (j *SnapshotJob) Run(ctx context.Context) error {
	if ctx.Err() != nil {
		return fmt.Errorf("cron: snapshot cancelled: %w", ctx.Err())
	}

	// Collect first: session locks must not be taken while Range holds
	// the store lock, or a turn handler calling Touch could deadlock.
	var sessions []*memory.Session
	j.Sessions.Range(func(_ string, sess *memory.Session) bool {
		sessions = append(sessions, sess)
		return true
	})

	var saved int
	for _, sess := range sessions {
		sess.Lock()
		state := sess.Conversation.Snapshot()
		sess.Unlock()
		if err := j.Writer.SaveSnapshot(ctx, sess.ID, state); err != nil {
			return fmt.Errorf("cron: snapshot of session %q: %w", sess.ID, err)
		}
		saved++
	}

	if saved > 0 {
		j.Logger.Debug("cron: session snapshots written", "count", saved)
	}
	return nil
}
