package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWithContext(newCommandContext())
}

func newRootCommandWithContext(ctx *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ci-notify",
		Short:         "Send a CI run notification to a chat webhook",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSend(cmd, ctx)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")
	flags.StringVar(&ctx.webhookFlag, "webhook", "", "Webhook URL (overrides INPUT_WEBHOOK)")
	flags.StringVar(&ctx.languageFlag, "language", "", "Locale code: en, ko, ja")
	flags.StringVar(&ctx.formatFlag, "format", "", "Payload format: discord or slack")
	flags.BoolVar(&ctx.dryRunFlag, "dry-run", false, "Log the payload instead of sending it")

	rootCmd.AddCommand(newPreviewCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
