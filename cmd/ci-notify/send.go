package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonny/ci-notify/internal/adapter/inbound/actions"
	"github.com/jonny/ci-notify/internal/adapter/outbound/notification"
	"github.com/jonny/ci-notify/internal/adapter/outbound/persistence/sqlite"
	"github.com/jonny/ci-notify/internal/config"
	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/outbound"
	"github.com/jonny/ci-notify/internal/domain/service"
	"github.com/jonny/ci-notify/pkg/apierror"
	"github.com/jonny/ci-notify/pkg/version"
)

// runSend performs one notification for the current run and reports the
// outcome as workflow commands on stdout.
func runSend(cmd *cobra.Command, c *commandContext) error {
	rep := actions.NewCommandReporter(cmd.OutOrStdout())

	cfg, err := c.loadConfig(cmd, true)
	if err != nil {
		service.Result{Err: err}.Report(rep)
		return errReported
	}
	logger := c.logger(cfg.Logging)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deliverer, err := notification.New(notification.Config{
		Format:  model.Format(cfg.Format),
		Timeout: cfg.Timeout,
		DryRun:  cfg.DryRun,
	}, logger)
	if err != nil {
		service.Result{Err: err}.Report(rep)
		return errReported
	}

	// --- History (optional) ---
	var history outbound.DeliveryRepository
	if cfg.History.Enabled {
		store, err := openHistory(ctx, cfg.History)
		if err != nil {
			logger.Warn("delivery history unavailable", "error", err, "path", cfg.History.Path)
		} else {
			defer store.Close()
			logger.Debug("recording delivery history", "path", store.Path())
			history = sqlite.NewDeliveryRepo(store)
		}
	}

	orchestrator := service.NewOrchestrator(
		service.NewComposer(nil, nil),
		actions.NewEnvSource(c.lookup, logger),
		deliverer,
		history,
		logger,
	)

	logger.Debug("ci-notify starting", "version", version.String(), "format", cfg.Format, "dryRun", cfg.DryRun)

	result := orchestrator.Dispatch(ctx, service.Request{
		Webhook:        cfg.Webhook,
		Language:       cfg.Language,
		StatusOverride: cfg.StatusOverride(c.lookup),
	})
	if apierror.StatusCode(result.Err) == http.StatusTooManyRequests {
		logger.Warn("webhook rate limited the request; delivery is not retried")
	}
	result.Report(rep)

	if rep.Failed() {
		return errReported
	}
	return nil
}

func openHistory(ctx context.Context, cfg config.HistoryConfig) (*sqlite.Store, error) {
	return sqlite.Open(ctx, sqlite.Config{
		Path:              cfg.Path,
		PragmaJournalMode: cfg.PragmaJournalMode,
		PragmaBusyTimeout: cfg.PragmaBusyTimeout,
	})
}
