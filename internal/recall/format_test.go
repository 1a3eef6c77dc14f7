package recall_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/solacelabs/solace/internal/recall"
)

func TestFormatFacts_Empty(t *testing.T) {
	t.Parallel()

	if got := recall.FormatFacts(nil); got != "" {
		t.Errorf("FormatFacts(nil) = %q, want empty string", got)
	}
}

func TestFormatFacts_SectionsAndRendering(t *testing.T) {
	t.Parallel()

	facts := []recall.Fact{
		{Type: recall.FactEvent, Content: "job interview", Context: "at tech company", Importance: recall.ImportanceHigh},
		{Type: recall.FactPerson, Content: "Sarah (roommate)", Importance: recall.ImportanceMedium},
		{Type: recall.FactMood, Content: "feeling anxious", Importance: recall.ImportanceHigh},
	}

	got := recall.FormatFacts(facts)

	if !strings.Contains(got, "People: Sarah (roommate)") {
		t.Errorf("missing people section in:\n%s", got)
	}
	if !strings.Contains(got, "Events: job interview (at tech company) [Importance: high]") {
		t.Errorf("event rendering wrong in:\n%s", got)
	}
	if !strings.Contains(got, "Recent moods: feeling anxious") {
		t.Errorf("missing moods section in:\n%s", got)
	}
	if strings.Contains(got, "Places:") {
		t.Errorf("empty section rendered in:\n%s", got)
	}

	// People must come before Events, Events before moods.
	people := strings.Index(got, "People:")
	events := strings.Index(got, "Events:")
	moods := strings.Index(got, "Recent moods:")
	if !(people < events && events < moods) {
		t.Errorf("section order wrong (people=%d events=%d moods=%d)", people, events, moods)
	}
}

func TestFormatJournal_Empty(t *testing.T) {
	t.Parallel()

	if got := recall.FormatJournal(nil, 10); got != "" {
		t.Errorf("FormatJournal(nil) = %q, want empty string", got)
	}
}

func TestFormatJournal_RelativeTimeAndMood(t *testing.T) {
	t.Parallel()

	now := time.Now()
	entries := []recall.JournalEntry{
		{StartMood: 2, EndMood: 4, Summary: "talked through interview nerves", Timestamp: now.Add(-2 * time.Hour)},
		{StartMood: 3, EndMood: 3, Summary: "quiet day", Timestamp: now.Add(-26 * time.Hour)},
		{StartMood: 4, EndMood: 2, Summary: "rough week recap", Interpretation: "User felt rushed. Should improve by slowing down.", Timestamp: now.Add(-96 * time.Hour)},
	}

	got := recall.FormatJournal(entries, 10)

	for _, want := range []string{
		"earlier today (mood 2 → 4): talked through interview nerves",
		"yesterday (mood 3 → 3): quiet day",
		"4 days ago (mood 4 → 2): rough week recap",
		"→ Improvement note: User felt rushed.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatJournal output missing %q in:\n%s", want, got)
		}
	}
}

func TestFormatJournal_SummaryPreviewKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	// 149 ASCII bytes followed by a multi-byte rune straddling the 150-byte
	// preview boundary.
	summary := strings.Repeat("a", 149) + "éé"
	entries := []recall.JournalEntry{
		{StartMood: 3, EndMood: 3, Summary: summary, Timestamp: time.Now()},
	}

	got := recall.FormatJournal(entries, 10)

	if !utf8.ValidString(got) {
		t.Fatalf("FormatJournal produced invalid UTF-8:\n%q", got)
	}
	if strings.Contains(got, strings.Repeat("a", 149)+"éé") {
		t.Error("summary was not truncated at the preview length")
	}
}

func TestFormatJournal_TruncationNote(t *testing.T) {
	t.Parallel()

	entries := make([]recall.JournalEntry, 5)
	for i := range entries {
		entries[i] = recall.JournalEntry{StartMood: 3, EndMood: 3, Summary: "entry", Timestamp: time.Now()}
	}

	got := recall.FormatJournal(entries, 3)
	if !strings.Contains(got, "(+2 older entries not shown)") {
		t.Errorf("missing omitted-entries note in:\n%s", got)
	}
}
