// Package memory implements per-session conversation memory with rolling
// summarization: recent turns are kept verbatim, older turns are compacted
// into short summary blurbs to bound prompt size over long sessions.
package memory

// Config holds the tuning knobs for conversation memory.
//
// The boundaries here are exact: summarization triggers strictly above
// SummarizeThreshold, and compaction keeps the *last* KeepOnSummarize turns.
type Config struct {
	// MaxRecentTurns is the upper bound on turns returned for display
	// purposes. It is distinct from SummarizeThreshold.
	MaxRecentTurns int

	// SummarizeThreshold triggers summarization when the number of recent
	// turns exceeds (not reaches) this value.
	SummarizeThreshold int

	// KeepOnSummarize is the number of most-recent turns retained verbatim
	// after a summary is committed.
	KeepOnSummarize int

	// MaxSummaries caps the rolling summary list. Committing a summary
	// beyond the cap evicts the oldest entry (FIFO).
	MaxSummaries int
}

// withDefaults returns a copy of cfg with zero-valued fields replaced by
// the defaults the product shipped with.
func (cfg Config) withDefaults() Config {
	if cfg.MaxRecentTurns == 0 {
		cfg.MaxRecentTurns = 10
	}
	if cfg.SummarizeThreshold == 0 {
		cfg.SummarizeThreshold = 8
	}
	if cfg.KeepOnSummarize == 0 {
		cfg.KeepOnSummarize = 4
	}
	if cfg.MaxSummaries == 0 {
		cfg.MaxSummaries = 3
	}
	return cfg
}
