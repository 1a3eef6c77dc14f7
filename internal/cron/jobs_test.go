package cron

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/solacelabs/solace/internal/memory"
	"github.com/solacelabs/solace/internal/provider"
)

// testPruner implements SessionPruner for job tests.
type testPruner struct {
	calls   int
	maxIdle time.Duration
	pruned  int
}

func (p *testPruner) Prune(maxIdle time.Duration) int {
	p.calls++
	p.maxIdle = maxIdle
	return p.pruned
}

func TestSessionCleanupJob(t *testing.T) {
	t.Parallel()

	pruner := &testPruner{pruned: 2}
	j := &SessionCleanupJob{
		Store:   pruner,
		MaxIdle: 30 * time.Minute,
		Logger:  slog.Default(),
	}

	if j.Name() != "session_cleanup" {
		t.Errorf("Name() = %q", j.Name())
	}
	if j.Schedule() != "*/5 * * * *" {
		t.Errorf("Schedule() = %q, want default", j.Schedule())
	}

	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if pruner.calls != 1 || pruner.maxIdle != 30*time.Minute {
		t.Errorf("pruner called %d times with %v", pruner.calls, pruner.maxIdle)
	}
}

func TestSessionCleanupJob_CustomSchedule(t *testing.T) {
	t.Parallel()

	j := &SessionCleanupJob{ScheduleExpr: "0 * * * *"}
	if j.Schedule() != "0 * * * *" {
		t.Errorf("Schedule() = %q", j.Schedule())
	}
}

// testSnapshotWriter records snapshots and optionally fails.
type testSnapshotWriter struct {
	saved map[string]memory.State
	err   error
}

func (w *testSnapshotWriter) SaveSnapshot(_ context.Context, id string, state memory.State) error {
	if w.err != nil {
		return w.err
	}
	if w.saved == nil {
		w.saved = make(map[string]memory.State)
	}
	w.saved[id] = state
	return nil
}

func TestSnapshotJob(t *testing.T) {
	t.Parallel()

	sessions := memory.NewInMemorySessionStore(memory.Config{})
	for _, id := range []string{"s1", "s2"} {
		sess, _ := sessions.GetOrCreate(id)
		sess.Conversation.AddTurn(provider.RoleUser, "hello from "+id)
	}

	writer := &testSnapshotWriter{}
	j := &SnapshotJob{Sessions: sessions, Writer: writer, Logger: slog.Default()}

	if err := j.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(writer.saved) != 2 {
		t.Fatalf("saved %d snapshots, want 2", len(writer.saved))
	}
	if turns := writer.saved["s1"].RecentTurns; len(turns) != 1 || turns[0].Content != "hello from s1" {
		t.Errorf("s1 snapshot = %+v", turns)
	}
}

func TestSnapshotJob_WriteErrorAborts(t *testing.T) {
	t.Parallel()

	sessions := memory.NewInMemorySessionStore(memory.Config{})
	sessions.GetOrCreate("s1")

	writer := &testSnapshotWriter{err: errors.New("disk full")}
	j := &SnapshotJob{Sessions: sessions, Writer: writer, Logger: slog.Default()}

	if err := j.Run(context.Background()); err == nil {
		t.Fatal("Run() succeeded despite write error")
	}
}

func TestSnapshotJob_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	j := &SnapshotJob{
		Sessions: memory.NewInMemorySessionStore(memory.Config{}),
		Writer:   &testSnapshotWriter{},
		Logger:   slog.Default(),
	}
	if err := j.Run(ctx); err == nil {
		t.Fatal("Run() ignored cancelled context")
	}
}
