package sqlite_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/solacelabs/solace/internal/memory"
	"github.com/solacelabs/solace/internal/provider"
	"github.com/solacelabs/solace/internal/recall"
	"github.com/solacelabs/solace/modules/store/sqlite"
)

func openStore(t *testing.T, cfg sqlite.Config) *sqlite.Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "solace.db")
	}
	store, err := sqlite.Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpen_MigrationIsIdempotent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "solace.db")
	store, err := sqlite.Open(sqlite.Config{Path: path})
	if err != nil {
		t.Fatalf("first Open() error = %v", err)
	}
	if _, err := store.Facts().Save(context.Background(), recall.Fact{
		Type: recall.FactPerson, Content: "sister Amy",
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := sqlite.Open(sqlite.Config{Path: path})
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer reopened.Close()

	n, err := reopened.Facts().Len(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("fact count after reopen = %d, want 1", n)
	}
}

func TestFactStore_SaveAndRecent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	facts := openStore(t, sqlite.Config{}).Facts()

	saved, err := facts.Save(ctx, recall.Fact{
		Type:       recall.FactPerson,
		Content:    "sister Amy",
		Context:    "visits on weekends",
		Importance: recall.ImportanceHigh,
	})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if saved.ID == "" {
		t.Error("Save() did not assign an ID")
	}
	if saved.Timestamp.IsZero() {
		t.Error("Save() did not assign a timestamp")
	}

	got, err := facts.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recent() len = %d, want 1", len(got))
	}
	if got[0].Content != "sister Amy" || got[0].Context != "visits on weekends" {
		t.Errorf("Recent()[0] = %+v", got[0])
	}
	if got[0].Importance != recall.ImportanceHigh {
		t.Errorf("Importance = %q", got[0].Importance)
	}
}

func TestFactStore_DuplicateIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	facts := openStore(t, sqlite.Config{}).Facts()

	first, err := facts.Save(ctx, recall.Fact{Type: recall.FactPlace, Content: "Moved to Lyon"})
	if err != nil {
		t.Fatal(err)
	}

	// Same identity, different case: no new row, same ID comes back.
	second, err := facts.Save(ctx, recall.Fact{Type: recall.FactPlace, Content: "moved to lyon"})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("duplicate Save() ID = %q, want %q", second.ID, first.ID)
	}
	if !second.LastReferenced.After(first.Timestamp.Add(-time.Second)) {
		t.Errorf("LastReferenced not bumped: %v", second.LastReferenced)
	}

	n, err := facts.Len(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestFactStore_CapEvictsOldest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	facts := openStore(t, sqlite.Config{MaxFacts: 3}).Facts()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		if _, err := facts.Save(ctx, recall.Fact{
			Type:      recall.FactThing,
			Content:   fmt.Sprintf("fact %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := facts.Recent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent() len = %d, want 3", len(got))
	}
	if got[0].Content != "fact 4" || got[2].Content != "fact 2" {
		t.Errorf("kept facts = [%s %s %s], want newest three",
			got[0].Content, got[1].Content, got[2].Content)
	}
}

func TestFactStore_ByTypeAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	facts := openStore(t, sqlite.Config{}).Facts()

	saved, err := facts.Save(ctx, recall.Fact{Type: recall.FactMood, Content: "anxious about work"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := facts.Save(ctx, recall.Fact{Type: recall.FactPerson, Content: "sister Amy"}); err != nil {
		t.Fatal(err)
	}

	moods, err := facts.ByType(ctx, recall.FactMood)
	if err != nil {
		t.Fatal(err)
	}
	if len(moods) != 1 || moods[0].Content != "anxious about work" {
		t.Errorf("ByType() = %+v", moods)
	}

	if err := facts.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := facts.Delete(ctx, saved.ID); !errors.Is(err, recall.ErrFactNotFound) {
		t.Errorf("second Delete() error = %v, want ErrFactNotFound", err)
	}

	if err := facts.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if n, _ := facts.Len(ctx); n != 0 {
		t.Errorf("Len() after Clear = %d", n)
	}
}

func TestJournalStore_AddRecentStats(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	journal := openStore(t, sqlite.Config{}).Journal()

	base := time.Now().Add(-time.Hour)
	entries := []recall.JournalEntry{
		{StartMood: 2, EndMood: 4, Summary: "first session", KeyPoints: []string{"opened up"}, Timestamp: base},
		{StartMood: 3, EndMood: 6, Summary: "second session", Developments: []string{"sleep improved"}, Timestamp: base.Add(time.Minute)},
	}
	for _, e := range entries {
		if _, err := journal.Add(ctx, e); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	recent, err := journal.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent() len = %d, want 2", len(recent))
	}
	if recent[0].Summary != "second session" {
		t.Errorf("Recent()[0] = %q, want newest first", recent[0].Summary)
	}
	if len(recent[0].Developments) != 1 || recent[0].Developments[0] != "sleep improved" {
		t.Errorf("Developments = %v", recent[0].Developments)
	}
	if len(recent[1].KeyPoints) != 1 || recent[1].KeyPoints[0] != "opened up" {
		t.Errorf("KeyPoints = %v", recent[1].KeyPoints)
	}

	stats, err := journal.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalEntries != 2 {
		t.Errorf("TotalEntries = %d", stats.TotalEntries)
	}
	if stats.AverageStartMood != 2.5 {
		t.Errorf("AverageStartMood = %v, want 2.5", stats.AverageStartMood)
	}
	if stats.AverageImprovement != 2.5 {
		t.Errorf("AverageImprovement = %v, want 2.5", stats.AverageImprovement)
	}
}

func TestJournalStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	journal := openStore(t, sqlite.Config{}).Journal()

	added, err := journal.Add(ctx, recall.JournalEntry{StartMood: 5, EndMood: 5, Summary: "short one"})
	if err != nil {
		t.Fatal(err)
	}
	if err := journal.Delete(ctx, added.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := journal.Delete(ctx, added.ID); !errors.Is(err, recall.ErrEntryNotFound) {
		t.Errorf("second Delete() error = %v, want ErrEntryNotFound", err)
	}
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	snapshots := openStore(t, sqlite.Config{}).Snapshots()

	state := memory.State{
		RecentTurns: []memory.Turn{
			{Role: provider.RoleUser, Content: "hello", Timestamp: time.Now().UTC().Truncate(time.Second)},
			{Role: provider.RoleAssistant, Content: "hi there", Timestamp: time.Now().UTC().Truncate(time.Second)},
		},
		Summaries:    []string{"earlier we talked about work"},
		SessionStart: time.Now().UTC().Truncate(time.Second),
	}

	if err := snapshots.SaveSnapshot(ctx, "s1", state); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	loaded, err := snapshots.LoadSnapshot(ctx, "s1")
	if err != nil {
		t.Fatalf("LoadSnapshot() error = %v", err)
	}
	if len(loaded.RecentTurns) != 2 || loaded.RecentTurns[0].Content != "hello" {
		t.Errorf("RecentTurns = %+v", loaded.RecentTurns)
	}
	if len(loaded.Summaries) != 1 || loaded.Summaries[0] != "earlier we talked about work" {
		t.Errorf("Summaries = %v", loaded.Summaries)
	}

	// Upsert replaces.
	state.Summaries = append(state.Summaries, "another block")
	if err := snapshots.SaveSnapshot(ctx, "s1", state); err != nil {
		t.Fatal(err)
	}
	loaded, err = snapshots.LoadSnapshot(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Summaries) != 2 {
		t.Errorf("Summaries after upsert = %v", loaded.Summaries)
	}

	ids, err := snapshots.SessionIDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "s1" {
		t.Errorf("SessionIDs() = %v", ids)
	}

	if err := snapshots.DeleteSnapshot(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSnapshot() error = %v", err)
	}
	if _, err := snapshots.LoadSnapshot(ctx, "s1"); !errors.Is(err, sqlite.ErrSnapshotNotFound) {
		t.Errorf("LoadSnapshot() after delete = %v, want ErrSnapshotNotFound", err)
	}
}
