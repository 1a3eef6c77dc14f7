package memory

import (
	"time"

	"github.com/solacelabs/solace/internal/provider"
)

// Conversation holds the active turn history and rolling summaries for a
// single session.
//
// Conversation is not internally synchronized. The orchestrator exclusively
// owns mutation and serializes access through the owning Session's lock;
// at most one turn is in flight per session.
type Conversation struct {
	turns        []Turn
	summaries    []string
	sessionStart time.Time
	config       Config
}

// NewConversation creates an empty conversation with the given config.
func NewConversation(cfg Config) *Conversation {
	return &Conversation{
		sessionStart: time.Now(),
		config:       cfg.withDefaults(),
	}
}

// AddTurn appends a turn with the current timestamp. It never fails.
func (c *Conversation) AddTurn(role provider.Role, content string) {
	c.turns = append(c.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// ShouldSummarize reports whether the recent turn count exceeds the
// summarize threshold. Pure query, no side effect.
func (c *Conversation) ShouldSummarize() bool {
	return len(c.turns) > c.config.SummarizeThreshold
}

// TurnsToSummarize returns the turns that a summarization pass would
// compress: everything but the last KeepOnSummarize turns, oldest first.
//
// This is a preview; memory is not mutated. Committing is a separate step
// (CommitSummary) so that a failed summarization call leaves memory
// untouched and the compaction is retried on the next qualifying turn.
func (c *Conversation) TurnsToSummarize() []Turn {
	keep := c.config.KeepOnSummarize
	if len(c.turns) <= keep {
		return nil
	}
	out := make([]Turn, len(c.turns)-keep)
	copy(out, c.turns[:len(c.turns)-keep])
	return out
}

// CommitSummary truncates recent turns to the last KeepOnSummarize entries,
// appends summary to the rolling list, and evicts the oldest summary once
// the cap is exceeded.
//
// This is a lossy, one-way compaction: the compressed turn content is no
// longer recoverable from memory afterwards.
func (c *Conversation) CommitSummary(summary string) {
	keep := c.config.KeepOnSummarize
	if len(c.turns) > keep {
		retained := make([]Turn, keep)
		copy(retained, c.turns[len(c.turns)-keep:])
		c.turns = retained
	}

	c.summaries = append(c.summaries, summary)
	if len(c.summaries) > c.config.MaxSummaries {
		c.summaries = c.summaries[len(c.summaries)-c.config.MaxSummaries:]
	}
}

// Turns returns a copy of the recent turn history, oldest first.
func (c *Conversation) Turns() []Turn {
	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Messages returns the recent turns converted to provider messages,
// chronological order preserved. At most the last MaxRecentTurns turns are
// included, independent of the summarization threshold.
func (c *Conversation) Messages() []provider.Message {
	turns := c.turns
	if max := c.config.MaxRecentTurns; len(turns) > max {
		turns = turns[len(turns)-max:]
	}
	out := make([]provider.Message, len(turns))
	for i, t := range turns {
		out[i] = t.Message()
	}
	return out
}

// Summaries returns a copy of the rolling summaries, oldest first.
func (c *Conversation) Summaries() []string {
	out := make([]string, len(c.summaries))
	copy(out, c.summaries)
	return out
}

// Len returns the number of recent turns currently held.
func (c *Conversation) Len() int {
	return len(c.turns)
}

// SessionStart returns when this conversation began.
func (c *Conversation) SessionStart() time.Time {
	return c.sessionStart
}

// Snapshot returns a deep copy of the memory state for persistence.
func (c *Conversation) Snapshot() State {
	return State{
		RecentTurns:  c.Turns(),
		Summaries:    c.Summaries(),
		SessionStart: c.sessionStart,
	}
}

// Restore replaces the internal state wholesale, used to resume a session
// from persisted state. The input slices are copied.
func (c *Conversation) Restore(state State) {
	c.turns = make([]Turn, len(state.RecentTurns))
	copy(c.turns, state.RecentTurns)
	c.summaries = make([]string, len(state.Summaries))
	copy(c.summaries, state.Summaries)
	c.sessionStart = state.SessionStart
	if c.sessionStart.IsZero() {
		c.sessionStart = time.Now()
	}
}

// Clear resets the conversation to an empty state with a fresh session start.
func (c *Conversation) Clear() {
	c.turns = nil
	c.summaries = nil
	c.sessionStart = time.Now()
}
