// Package chat implements the per-turn control flow: it owns session
// memory mutation, decides when to compress older turns, assembles the
// ordered message list for each model call, and degrades gracefully when
// the model misbehaves.
package chat

// Config holds the orchestrator's generation and policy knobs.
type Config struct {
	// ChatTemperature and MaxTokens apply to completion calls.
	ChatTemperature float64
	MaxTokens       int

	// SummaryTemperature and SummaryMaxTokens apply to summarization and
	// journal-entry calls.
	SummaryTemperature float64
	SummaryMaxTokens   int

	// GreetingMaxTokens bounds generated opening lines.
	GreetingMaxTokens int

	// FactLimit caps how many ranked facts are injected per turn.
	FactLimit int

	// JournalEntries caps how many recent journal entries are injected.
	JournalEntries int

	// ExtractEvery runs fact extraction after every Nth assistant turn in
	// a session. 0 uses the default; extraction is disabled entirely when
	// no extractor is configured.
	ExtractEvery int

	// ExtractWindow is how many recent user turns extraction looks at.
	ExtractWindow int
}

// withDefaults returns a copy of cfg with zero-valued fields replaced by
// the defaults the product shipped with.
func (cfg Config) withDefaults() Config {
	if cfg.ChatTemperature == 0 {
		cfg.ChatTemperature = 0.8
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	if cfg.SummaryTemperature == 0 {
		cfg.SummaryTemperature = 0.3
	}
	if cfg.SummaryMaxTokens == 0 {
		cfg.SummaryMaxTokens = 500
	}
	if cfg.GreetingMaxTokens == 0 {
		cfg.GreetingMaxTokens = 120
	}
	if cfg.FactLimit == 0 {
		cfg.FactLimit = 15
	}
	if cfg.JournalEntries == 0 {
		cfg.JournalEntries = 3
	}
	if cfg.ExtractEvery == 0 {
		cfg.ExtractEvery = 3
	}
	if cfg.ExtractWindow == 0 {
		cfg.ExtractWindow = 5
	}
	return cfg
}
