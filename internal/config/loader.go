package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// varPattern matches ${NAME} and ${NAME:-fallback} references in the raw
// file. A fallback may contain any character except an unescaped brace.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load parses the YAML file at path into a Config. Environment variable
// references are substituted before parsing; a reference without a value
// and without a fallback fails the load.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	substituted, err := substituteVars(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(substituted, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// substituteVars resolves every variable reference in raw. Unresolved names
// are collected rather than failing on the first, so a single load reports
// every missing variable, the same way Validate reports problems.
func substituteVars(raw []byte) ([]byte, error) {
	var errs []error

	out := varPattern.ReplaceAllFunc(raw, func(ref []byte) []byte {
		groups := varPattern.FindSubmatch(ref)
		name := string(groups[1])

		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		if fallback := groups[2]; fallback != nil {
			return fallback
		}

		errs = append(errs, fmt.Errorf("environment variable %s is not set and has no fallback", name))
		return ref
	})

	return out, errors.Join(errs...)
}
