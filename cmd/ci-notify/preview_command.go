package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonny/ci-notify/internal/adapter/inbound/actions"
	"github.com/jonny/ci-notify/internal/adapter/outbound/notification"
	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/service"
)

func newPreviewCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Print the webhook payload for the current run without sending it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, false)
			if err != nil {
				return err
			}
			logger := c.logger(cfg.Logging)
			format := model.Format(cfg.Format)

			orchestrator := service.NewOrchestrator(
				service.NewComposer(nil, nil),
				actions.NewEnvSource(c.lookup, logger),
				notification.NewNoopNotifier(format, logger),
				nil,
				logger,
			)

			prepared, err := orchestrator.Prepare(cmd.Context(), service.Request{
				Language:       cfg.Language,
				StatusOverride: cfg.StatusOverride(c.lookup),
			})
			if err != nil {
				return err
			}

			body, err := notification.Payload(format, prepared.Embed)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(body)
		},
	}
}
