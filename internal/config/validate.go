package config

import (
	"errors"
	"fmt"
)

// knownProviders lists supported provider names.
var knownProviders = map[string]bool{
	"deepseek": true,
}

// knownTones lists the accepted persona voices.
var knownTones = map[string]bool{
	"":               true,
	"empathetic":     true,
	"humorous":       true,
	"blunt":          true,
	"therapist-like": true,
}

// Validate checks the structural validity of a Config: version, provider
// selection and credentials, memory bounds, tone, and store settings.
// All problems are reported at once.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	errs = append(errs, validateProvider(cfg.Provider)...)
	errs = append(errs, validateMemory(cfg.Memory)...)
	errs = append(errs, validateChat(cfg.Chat)...)
	errs = append(errs, validateStore(cfg.Store)...)

	if !knownTones[cfg.Persona.Tone] {
		errs = append(errs, fmt.Errorf("config: persona: unknown tone %q", cfg.Persona.Tone))
	}

	return errors.Join(errs...)
}

func validateProvider(p ProviderConfig) []error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("config: provider: name is required"))
	} else if !knownProviders[p.Name] {
		errs = append(errs, fmt.Errorf("config: provider: unknown provider %q", p.Name))
	}
	if p.APIKey == "" {
		errs = append(errs, errors.New("config: provider: api_key is required"))
	}
	if p.Timeout < 0 {
		errs = append(errs, errors.New("config: provider: timeout must not be negative"))
	}
	return errs
}

func validateMemory(m MemoryConfig) []error {
	var errs []error
	if m.MaxRecentTurns < 0 || m.SummarizeThreshold < 0 || m.KeepOnSummarize < 0 || m.MaxSummaries < 0 {
		errs = append(errs, errors.New("config: memory: limits must not be negative"))
	}
	if m.SummarizeThreshold > 0 && m.KeepOnSummarize > m.SummarizeThreshold {
		errs = append(errs, fmt.Errorf(
			"config: memory: keep_on_summarize (%d) must not exceed summarize_threshold (%d)",
			m.KeepOnSummarize, m.SummarizeThreshold))
	}
	return errs
}

func validateChat(c ChatConfig) []error {
	var errs []error
	if c.Temperature < 0 || c.Temperature > 2 {
		errs = append(errs, fmt.Errorf("config: chat: temperature %v out of range [0, 2]", c.Temperature))
	}
	if c.SummaryTemperature < 0 || c.SummaryTemperature > 2 {
		errs = append(errs, fmt.Errorf("config: chat: summary_temperature %v out of range [0, 2]", c.SummaryTemperature))
	}
	if c.MaxTokens < 0 || c.SummaryMaxTokens < 0 {
		errs = append(errs, errors.New("config: chat: token limits must not be negative"))
	}
	if c.ExtractEvery < 0 {
		errs = append(errs, errors.New("config: chat: extract_every must not be negative"))
	}
	return errs
}

func validateStore(s StoreConfig) []error {
	var errs []error
	switch s.Driver {
	case "", "memory":
	case "sqlite":
		if s.Path == "" {
			errs = append(errs, errors.New("config: store: path is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: store: unknown driver %q (supported: memory, sqlite)", s.Driver))
	}
	if s.MaxFacts < 0 {
		errs = append(errs, errors.New("config: store: max_facts must not be negative"))
	}
	return errs
}
