package config

import (
	"fmt"
	"strings"
)

// Validate checks the config for errors. A missing webhook is reported on its
// own as ErrMissingInput; everything else is aggregated.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Webhook) == "" && !cfg.DryRun {
		return fmt.Errorf("%w: webhook", ErrMissingInput)
	}

	var errs []string

	validFormats := map[string]bool{"discord": true, "slack": true}
	if !validFormats[cfg.Format] {
		errs = append(errs, fmt.Sprintf("format must be discord or slack (got %q)", cfg.Format))
	}

	if cfg.Timeout < 0 {
		errs = append(errs, "timeout must not be negative")
	}

	if cfg.StatusEnv == "" {
		errs = append(errs, "statusEnv must not be empty")
	}

	if cfg.History.Enabled && cfg.History.Path == "" {
		errs = append(errs, "history.path is required when history is enabled")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	if !validLevels[cfg.Logging.Level] {
		errs = append(errs, fmt.Sprintf("logging.level must be debug, info, warn, or error (got %q)", cfg.Logging.Level))
	}

	validLogFormats := map[string]bool{"json": true, "text": true, "auto": true}
	if !validLogFormats[cfg.Logging.Format] {
		errs = append(errs, fmt.Sprintf("logging.format must be json, text, or auto (got %q)", cfg.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
