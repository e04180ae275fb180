package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingInput is returned when a required input was not supplied.
var ErrMissingInput = errors.New("input required and not supplied")

// DefaultStatusEnv is the environment variable consulted for an explicit status override.
const DefaultStatusEnv = "GITHUB_JOB_STATUS"

type Config struct {
	Webhook   string        `yaml:"webhook"`
	Language  string        `yaml:"language"`
	Format    string        `yaml:"format"`
	Timeout   time.Duration `yaml:"timeout"`
	DryRun    bool          `yaml:"dryRun"`
	StatusEnv string        `yaml:"statusEnv"`
	History   HistoryConfig `yaml:"history"`
	Logging   LoggingConfig `yaml:"logging"`
}

type HistoryConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Path              string `yaml:"path"`
	PragmaJournalMode string `yaml:"pragmaJournalMode"`
	PragmaBusyTimeout int    `yaml:"pragmaBusyTimeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Overrides are command-line values applied after inputs. Empty fields are ignored.
type Overrides struct {
	Webhook  string
	Language string
	Format   string
	DryRun   *bool
}

// Load builds the effective configuration: defaults, then the YAML file at path
// (optional), then action inputs from lookup, then overrides. The result is validated.
func Load(path string, lookup LookupFunc, ov Overrides) (*Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		expanded := expandEnvVars(string(data), lookup)
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := ApplyInputs(cfg, lookup); err != nil {
		return nil, err
	}
	cfg.apply(ov)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Language:  "en",
		Format:    "discord",
		StatusEnv: DefaultStatusEnv,
		History: HistoryConfig{
			Enabled:           false,
			Path:              ".ci-notify/history.db",
			PragmaJournalMode: "wal",
			PragmaBusyTimeout: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// ApplyInputs overlays GitHub Actions inputs (INPUT_<NAME>) onto cfg. Values are
// trimmed and empty values are ignored.
func ApplyInputs(cfg *Config, lookup LookupFunc) error {
	if v := input(lookup, "webhook"); v != "" {
		cfg.Webhook = v
	}
	if v := input(lookup, "language"); v != "" {
		cfg.Language = v
	}
	if v := input(lookup, "format"); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if v := input(lookup, "timeout"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("input timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if v := input(lookup, "dry-run"); v != "" {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("input dry-run: %w", err)
		}
		cfg.DryRun = b
	}
	if v := input(lookup, "history-path"); v != "" {
		cfg.History.Enabled = true
		cfg.History.Path = v
	}
	if v, ok := lookup("RUNNER_DEBUG"); ok && v == "1" {
		cfg.Logging.Level = "debug"
	}
	return nil
}

func (c *Config) apply(ov Overrides) {
	if ov.Webhook != "" {
		c.Webhook = ov.Webhook
	}
	if ov.Language != "" {
		c.Language = ov.Language
	}
	if ov.Format != "" {
		c.Format = strings.ToLower(ov.Format)
	}
	if ov.DryRun != nil {
		c.DryRun = *ov.DryRun
	}
}

// StatusOverride returns the explicit status override from the environment, if any.
func (c *Config) StatusOverride(lookup LookupFunc) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	v, _ := lookup(c.StatusEnv)
	return v
}

// input reads INPUT_<NAME> the way the Actions toolkit does.
func input(lookup LookupFunc, name string) string {
	key := "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
	v, _ := lookup(key)
	return strings.TrimSpace(v)
}

// parseBool accepts the YAML 1.2 core schema booleans the Actions toolkit accepts.
func parseBool(v string) (bool, error) {
	switch v {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	}
	return false, fmt.Errorf("%q is not a boolean (true|True|TRUE|false|False|FALSE)", v)
}

// expandEnvVars replaces ${VAR} patterns with environment variable values.
func expandEnvVars(s string, lookup LookupFunc) string {
	return os.Expand(s, func(key string) string {
		if val, ok := lookup(key); ok {
			return val
		}
		return "${" + key + "}"
	})
}
