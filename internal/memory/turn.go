package memory

import (
	"time"

	"github.com/solacelabs/solace/internal/provider"
)

// Turn is one conversational message. Turns are immutable once created;
// they are only ever appended or evicted.
type Turn struct {
	Role      provider.Role `json:"role"`
	Content   string        `json:"content"`
	Timestamp time.Time     `json:"timestamp,omitzero"`
}

// Message converts the turn to a provider message.
func (t Turn) Message() provider.Message {
	return provider.Message{Role: t.Role, Content: t.Content}
}

// State is a point-in-time snapshot of a conversation's memory,
// suitable for persistence and restoration.
type State struct {
	RecentTurns  []Turn    `json:"recent_turns"`
	Summaries    []string  `json:"summaries"`
	SessionStart time.Time `json:"session_start"`
}
