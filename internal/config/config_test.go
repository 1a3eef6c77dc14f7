package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "solace.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Full(t *testing.T) {
	path := writeConfig(t, `
version: "1"
provider:
  name: deepseek
  api_key: sk-test
  model: deepseek-chat
  timeout: 30s
memory:
  summarize_threshold: 8
  keep_on_summarize: 4
chat:
  temperature: 0.8
  max_tokens: 1000
persona:
  name: Sol
  tone: empathetic
store:
  driver: sqlite
  path: /tmp/solace.db
sessions:
  max_idle: 45m
  prune_schedule: "*/10 * * * *"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provider.Name != "deepseek" || cfg.Provider.APIKey != "sk-test" {
		t.Errorf("provider = %+v", cfg.Provider)
	}
	if cfg.Provider.Timeout.Std() != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", cfg.Provider.Timeout.Std())
	}
	if cfg.Memory.SummarizeThreshold != 8 || cfg.Memory.KeepOnSummarize != 4 {
		t.Errorf("memory = %+v", cfg.Memory)
	}
	if cfg.Sessions.MaxIdle.Std() != 45*time.Minute {
		t.Errorf("max_idle = %v, want 45m", cfg.Sessions.MaxIdle.Std())
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SOLACE_TEST_KEY", "sk-from-env")
	path := writeConfig(t, `
version: "1"
provider:
  name: deepseek
  api_key: ${SOLACE_TEST_KEY}
  model: ${SOLACE_TEST_MODEL:-deepseek-chat}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Provider.APIKey != "sk-from-env" {
		t.Errorf("api_key = %q, want value from env", cfg.Provider.APIKey)
	}
	if cfg.Provider.Model != "deepseek-chat" {
		t.Errorf("model = %q, want default applied", cfg.Provider.Model)
	}
}

func TestLoad_UnresolvedVariable(t *testing.T) {
	path := writeConfig(t, `
version: "1"
provider:
  name: deepseek
  api_key: ${SOLACE_DEFINITELY_UNSET_VAR}
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() succeeded with unresolved variable")
	}
	if !strings.Contains(err.Error(), "SOLACE_DEFINITELY_UNSET_VAR") {
		t.Errorf("error %v does not name the variable", err)
	}
}

func TestLoad_ReportsAllUnresolvedVariables(t *testing.T) {
	path := writeConfig(t, `
version: "1"
provider:
  name: deepseek
  api_key: ${SOLACE_UNSET_KEY}
  model: ${SOLACE_UNSET_MODEL}
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() succeeded with unresolved variables")
	}
	for _, want := range []string{"SOLACE_UNSET_KEY", "SOLACE_UNSET_MODEL"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
version: "1"
provider:
  name: deepseek
  api_key: x
  timeout: soon
`)

	if _, err := Load(path); err == nil {
		t.Fatal("Load() succeeded with invalid duration")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Version:  "1",
			Provider: ProviderConfig{Name: "deepseek", APIKey: "sk-test"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing version", func(c *Config) { c.Version = "" }, "version field is required"},
		{"unsupported version", func(c *Config) { c.Version = "2" }, "unsupported version"},
		{"missing provider name", func(c *Config) { c.Provider.Name = "" }, "name is required"},
		{"unknown provider", func(c *Config) { c.Provider.Name = "gpt9" }, "unknown provider"},
		{"missing api key", func(c *Config) { c.Provider.APIKey = "" }, "api_key is required"},
		{"keep exceeds threshold", func(c *Config) {
			c.Memory.SummarizeThreshold = 4
			c.Memory.KeepOnSummarize = 8
		}, "must not exceed summarize_threshold"},
		{"temperature out of range", func(c *Config) { c.Chat.Temperature = 3.5 }, "out of range"},
		{"unknown tone", func(c *Config) { c.Persona.Tone = "sarcastic" }, "unknown tone"},
		{"sqlite without path", func(c *Config) { c.Store.Driver = "sqlite" }, "path is required"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }, "unknown driver"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := &Config{}
	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() succeeded on empty config")
	}
	for _, want := range []string{"version field is required", "name is required", "api_key is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}
