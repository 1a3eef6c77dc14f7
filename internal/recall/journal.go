package recall

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"time"
)

// JournalEntry records one past session: mood transition, a short summary,
// and what came out of the conversation. Entries are read-only inputs to
// context assembly once written.
type JournalEntry struct {
	ID           string    `json:"id"`
	StartMood    int       `json:"start_mood"` // 1-5 scale
	EndMood      int       `json:"end_mood"`   // 1-5 scale
	Summary      string    `json:"summary"`
	KeyPoints    []string  `json:"key_points,omitempty"`
	Developments []string  `json:"developments,omitempty"`
	// UserFeedback is the user's explanation when their mood dropped;
	// Interpretation is the model's improvement note derived from it.
	UserFeedback   string    `json:"user_feedback,omitempty"`
	Interpretation string    `json:"interpretation,omitempty"`
	TurnCount      int       `json:"turn_count,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// MoodChange returns the mood delta over the session.
func (e JournalEntry) MoodChange() int {
	return e.EndMood - e.StartMood
}

// JournalStats aggregates mood movement across all entries.
type JournalStats struct {
	TotalEntries       int
	AverageStartMood   float64
	AverageEndMood     float64
	AverageImprovement float64
}

// JournalStore holds past-session journal entries, newest first.
// Implementations must be safe for concurrent use.
type JournalStore interface {
	Add(ctx context.Context, entry JournalEntry) (JournalEntry, error)
	Recent(ctx context.Context, n int) ([]JournalEntry, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (JournalStats, error)
	Len(ctx context.Context) (int, error)
}

// EntrySummary is the structured payload the model returns when asked to
// condense a session into a journal entry.
type EntrySummary struct {
	Summary      string   `json:"summary"`
	KeyPoints    []string `json:"keyPoints"`
	Developments []string `json:"developments"`
}

// ParseEntrySummary decodes a model response into an EntrySummary,
// tolerating markdown code fences around the JSON. The bool return is false
// when the response is unusable; callers fall back to a locally-built entry.
func ParseEntrySummary(text string) (EntrySummary, bool) {
	cleaned := stripCodeFences(text)
	var out EntrySummary
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return EntrySummary{}, false
	}
	if out.Summary == "" {
		return EntrySummary{}, false
	}
	return out, true
}

// stripCodeFences removes ```json / ``` wrappers the model sometimes adds.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// computeStats derives JournalStats from a set of entries.
func computeStats(entries []JournalEntry) JournalStats {
	if len(entries) == 0 {
		return JournalStats{}
	}

	var start, end, change float64
	for _, e := range entries {
		start += float64(e.StartMood)
		end += float64(e.EndMood)
		change += float64(e.MoodChange())
	}

	n := float64(len(entries))
	return JournalStats{
		TotalEntries:       len(entries),
		AverageStartMood:   round1(start / n),
		AverageEndMood:     round1(end / n),
		AverageImprovement: round1(change / n),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
