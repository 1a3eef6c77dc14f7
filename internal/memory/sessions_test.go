package memory_test

import (
	"testing"
	"time"

	"github.com/solacelabs/solace/internal/memory"
	"github.com/solacelabs/solace/internal/provider"
)

func TestSessionStore_GetOrCreate(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemorySessionStore(memory.Config{})

	s1, created := store.GetOrCreate("s1")
	if !created {
		t.Error("first GetOrCreate should report created=true")
	}
	if s1.Conversation == nil {
		t.Fatal("new session has nil conversation")
	}

	s1.Conversation.AddTurn(provider.RoleUser, "hello")

	again, created := store.GetOrCreate("s1")
	if created {
		t.Error("second GetOrCreate should report created=false")
	}
	if again != s1 {
		t.Error("GetOrCreate returned a different session instance for the same ID")
	}
	if again.Conversation.Len() != 1 {
		t.Errorf("conversation Len = %d, want 1", again.Conversation.Len())
	}
}

func TestSessionStore_Get_Missing(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemorySessionStore(memory.Config{})
	if got := store.Get("nope"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
}

func TestSessionStore_Delete(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemorySessionStore(memory.Config{})
	store.GetOrCreate("s1")
	store.Delete("s1")

	if store.Len() != 0 {
		t.Errorf("Len() after delete = %d, want 0", store.Len())
	}
	if store.Get("s1") != nil {
		t.Error("deleted session still retrievable")
	}
}

func TestSessionStore_Prune(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemorySessionStore(memory.Config{})
	stale, _ := store.GetOrCreate("stale")
	stale.LastActiveAt = time.Now().Add(-2 * time.Hour)
	store.GetOrCreate("fresh")

	if pruned := store.Prune(time.Hour); pruned != 1 {
		t.Errorf("Prune() = %d, want 1", pruned)
	}
	if store.Get("stale") != nil {
		t.Error("stale session survived prune")
	}
	if store.Get("fresh") == nil {
		t.Error("fresh session was pruned")
	}
}

func TestSessionStore_Range_StopsEarly(t *testing.T) {
	t.Parallel()

	store := memory.NewInMemorySessionStore(memory.Config{})
	store.GetOrCreate("a")
	store.GetOrCreate("b")
	store.GetOrCreate("c")

	seen := 0
	store.Range(func(string, *memory.Session) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Errorf("Range visited %d sessions after returning false, want 1", seen)
	}
}
