package recall_test

import (
	"context"
	"testing"

	"github.com/solacelabs/solace/internal/recall"
)

func TestFactStore_SaveAndRecent(t *testing.T) {
	t.Parallel()

	store := recall.NewInMemoryFactStore(0)
	ctx := context.Background()

	saved, err := store.Save(ctx, recall.Fact{
		Type:       recall.FactPerson,
		Content:    "Sarah",
		Importance: recall.ImportanceMedium,
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.ID == "" {
		t.Error("Save did not assign an ID")
	}
	if saved.Timestamp.IsZero() {
		t.Error("Save did not assign a timestamp")
	}

	facts, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(facts) != 1 || facts[0].Content != "Sarah" {
		t.Errorf("Recent = %v, want one fact Sarah", facts)
	}
}

func TestFactStore_DuplicateIsIdempotent(t *testing.T) {
	t.Parallel()

	store := recall.NewInMemoryFactStore(0)
	ctx := context.Background()

	first, err := store.Save(ctx, recall.Fact{Type: recall.FactPerson, Content: "Sarah", Importance: recall.ImportanceLow})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	// Same (type, content) pair, different case.
	second, err := store.Save(ctx, recall.Fact{Type: recall.FactPerson, Content: "sarah", Importance: recall.ImportanceHigh})
	if err != nil {
		t.Fatalf("duplicate Save returned error: %v", err)
	}

	if n, _ := store.Len(ctx); n != 1 {
		t.Errorf("Len = %d after duplicate insert, want 1", n)
	}
	if second.ID != first.ID {
		t.Errorf("duplicate Save returned ID %q, want existing %q", second.ID, first.ID)
	}
	if !second.LastReferenced.After(first.Timestamp) && !second.LastReferenced.Equal(first.Timestamp) {
		t.Error("duplicate Save did not bump LastReferenced")
	}

	// Same content, different type is a distinct fact.
	if _, err := store.Save(ctx, recall.Fact{Type: recall.FactThing, Content: "Sarah"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if n, _ := store.Len(ctx); n != 2 {
		t.Errorf("Len = %d, want 2 (different type is not a duplicate)", n)
	}
}

func TestFactStore_CapEvictsOldest(t *testing.T) {
	t.Parallel()

	store := recall.NewInMemoryFactStore(3)
	ctx := context.Background()

	for _, content := range []string{"a", "b", "c", "d"} {
		if _, err := store.Save(ctx, recall.Fact{Type: recall.FactThing, Content: content}); err != nil {
			t.Fatalf("Save(%q) returned error: %v", content, err)
		}
	}

	if n, _ := store.Len(ctx); n != 3 {
		t.Fatalf("Len = %d, want 3", n)
	}
	facts, _ := store.Recent(ctx, 10)
	if facts[0].Content != "d" {
		t.Errorf("newest fact = %q, want d", facts[0].Content)
	}
	for _, f := range facts {
		if f.Content == "a" {
			t.Error("oldest fact survived past the cap")
		}
	}
}

func TestFactStore_ByTypeAndDelete(t *testing.T) {
	t.Parallel()

	store := recall.NewInMemoryFactStore(0)
	ctx := context.Background()

	saved, _ := store.Save(ctx, recall.Fact{Type: recall.FactMood, Content: "feeling anxious"})
	store.Save(ctx, recall.Fact{Type: recall.FactPlace, Content: "Lisbon"})

	moods, err := store.ByType(ctx, recall.FactMood)
	if err != nil {
		t.Fatalf("ByType returned error: %v", err)
	}
	if len(moods) != 1 || moods[0].Content != "feeling anxious" {
		t.Errorf("ByType(mood) = %v", moods)
	}

	if err := store.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := store.Delete(ctx, saved.ID); err == nil {
		t.Error("second Delete should fail with ErrFactNotFound")
	}
}
