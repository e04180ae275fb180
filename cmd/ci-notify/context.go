package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jonny/ci-notify/internal/config"
)

// errReported marks a failure that was already surfaced as a workflow command.
var errReported = errors.New("failure reported")

type commandContext struct {
	configFlag   string
	webhookFlag  string
	languageFlag string
	formatFlag   string
	dryRunFlag   bool

	lookup func(key string) (string, bool)
	stderr io.Writer
}

func newCommandContext() *commandContext {
	return &commandContext{
		lookup: os.LookupEnv,
		stderr: os.Stderr,
	}
}

// loadConfig resolves the effective configuration. When requireWebhook is false
// the webhook check is skipped, which is what read-only commands want.
func (c *commandContext) loadConfig(cmd *cobra.Command, requireWebhook bool) (*config.Config, error) {
	ov := config.Overrides{
		Webhook:  strings.TrimSpace(c.webhookFlag),
		Language: strings.TrimSpace(c.languageFlag),
		Format:   strings.TrimSpace(c.formatFlag),
	}
	if cmd.Flags().Changed("dry-run") {
		dry := c.dryRunFlag
		ov.DryRun = &dry
	}
	if !requireWebhook && ov.DryRun == nil {
		dry := true
		ov.DryRun = &dry
	}
	return config.Load(strings.TrimSpace(c.configFlag), c.lookup, ov)
}

func (c *commandContext) logger(cfg config.LoggingConfig) *slog.Logger {
	return buildLogger(cfg, c.stderr)
}

// buildLogger constructs a slog.Logger based on config. The "auto" format picks
// text for terminals and JSON otherwise.
func buildLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	switch cfg.Format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts))
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	if isTerminal(w) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
