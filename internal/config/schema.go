// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for solace.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings such as
// "30s" or "1h30m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	Provider ProviderConfig `yaml:"provider"`
	Memory   MemoryConfig   `yaml:"memory,omitempty"`
	Chat     ChatConfig     `yaml:"chat,omitempty"`
	Persona  PersonaConfig  `yaml:"persona,omitempty"`
	Crisis   CrisisConfig   `yaml:"crisis,omitempty"`
	Store    StoreConfig    `yaml:"store,omitempty"`
	Sessions SessionsConfig `yaml:"sessions,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// ProviderConfig selects and configures the model backend.
type ProviderConfig struct {
	// Name identifies the backend. Currently only "deepseek" is supported.
	Name string `yaml:"name"`

	// APIKey authenticates against the backend. Usually set via
	// ${DEEPSEEK_API_KEY} expansion.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the backend endpoint, mainly for tests.
	BaseURL string `yaml:"base_url,omitempty"`

	// Model is the model identifier sent with each request.
	Model string `yaml:"model,omitempty"`

	// Timeout bounds a single completion call.
	Timeout Duration `yaml:"timeout,omitempty"`
}

// MemoryConfig tunes per-session conversation memory.
type MemoryConfig struct {
	MaxRecentTurns     int `yaml:"max_recent_turns,omitempty"`
	SummarizeThreshold int `yaml:"summarize_threshold,omitempty"`
	KeepOnSummarize    int `yaml:"keep_on_summarize,omitempty"`
	MaxSummaries       int `yaml:"max_summaries,omitempty"`
}

// ChatConfig tunes generation and context-injection behavior.
type ChatConfig struct {
	Temperature        float64 `yaml:"temperature,omitempty"`
	MaxTokens          int     `yaml:"max_tokens,omitempty"`
	SummaryTemperature float64 `yaml:"summary_temperature,omitempty"`
	SummaryMaxTokens   int     `yaml:"summary_max_tokens,omitempty"`
	FactLimit          int     `yaml:"fact_limit,omitempty"`
	JournalEntries     int     `yaml:"journal_entries,omitempty"`
	ExtractEvery       int     `yaml:"extract_every,omitempty"`
}

// PersonaConfig names the companion and sets its voice.
type PersonaConfig struct {
	Name        string `yaml:"name,omitempty"`
	Personality string `yaml:"personality,omitempty"`

	// Tone is one of: empathetic, humorous, blunt, therapist-like.
	Tone string `yaml:"tone,omitempty"`
}

// CrisisConfig controls the keyword classifier.
type CrisisConfig struct {
	// Disabled turns detection off entirely.
	Disabled bool `yaml:"disabled,omitempty"`

	// Keywords replaces the built-in phrase list when non-empty.
	Keywords []string `yaml:"keywords,omitempty"`
}

// StoreConfig selects fact and journal persistence.
type StoreConfig struct {
	// Driver is "memory" or "sqlite". Empty means memory.
	Driver string `yaml:"driver,omitempty"`

	// Path is the SQLite database file, required for the sqlite driver.
	Path string `yaml:"path,omitempty"`

	// MaxFacts caps the fact store; oldest entries are evicted beyond it.
	MaxFacts int `yaml:"max_facts,omitempty"`
}

// SessionsConfig controls idle-session cleanup.
type SessionsConfig struct {
	// MaxIdle is how long a session may sit untouched before pruning.
	MaxIdle Duration `yaml:"max_idle,omitempty"`

	// PruneSchedule is a cron expression for the cleanup job.
	PruneSchedule string `yaml:"prune_schedule,omitempty"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	// Level is one of: debug, info, warn, error. Empty means info.
	Level string `yaml:"level,omitempty"`

	// Format is "text" or "json". Empty means text.
	Format string `yaml:"format,omitempty"`
}
