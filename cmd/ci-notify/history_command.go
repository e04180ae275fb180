package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonny/ci-notify/internal/adapter/outbound/persistence/sqlite"
	"github.com/jonny/ci-notify/internal/domain/model"
	"github.com/jonny/ci-notify/internal/domain/port/outbound"
)

func newHistoryCommand(c *commandContext) *cobra.Command {
	var (
		repo     string
		runID    string
		failed   bool
		since    time.Duration
		page     int
		limit    int
		asJSON   bool
		pathFlag string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded delivery attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, false)
			if err != nil {
				return err
			}
			path := cfg.History.Path
			if strings.TrimSpace(pathFlag) != "" {
				path = strings.TrimSpace(pathFlag)
			}
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("no delivery history at %s", path)
			}

			hc := cfg.History
			hc.Path = path
			store, err := openHistory(cmd.Context(), hc)
			if err != nil {
				return err
			}
			defer store.Close()

			filter := outbound.DeliveryFilter{Repository: repo, RunID: runID}
			if failed {
				delivered := false
				filter.Delivered = &delivered
			}
			if since > 0 {
				cutoff := time.Now().Add(-since).UTC()
				filter.Since = &cutoff
			}

			result, err := sqlite.NewDeliveryRepo(store).List(cmd.Context(), filter, outbound.PageRequest{
				Page: max(page-1, 0),
				Size: limit,
				Desc: true,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result.Items)
			}
			if len(result.Items) == 0 {
				_, err := fmt.Fprintln(out, "No deliveries recorded")
				return err
			}
			_, err = fmt.Fprintln(out, renderHistory(result.Items))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "Showing %d of %d (page %d)\n", len(result.Items), result.TotalCount, result.Page+1)
			return err
		},
	}

	cmd.Flags().StringVar(&pathFlag, "path", "", "History database path (defaults to history.path)")
	cmd.Flags().StringVar(&repo, "repo", "", "Only show deliveries for owner/name")
	cmd.Flags().StringVar(&runID, "run-id", "", "Only show deliveries for a run ID")
	cmd.Flags().BoolVar(&failed, "failed", false, "Only show failed deliveries")
	cmd.Flags().DurationVar(&since, "since", 0, "Only show deliveries newer than this duration")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func renderHistory(items []model.DeliveryRecord) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Created", "Repository", "Workflow", "Run", "Status", "Format", "Delivered", "Error"})
	for _, rec := range items {
		delivered := "yes"
		if !rec.Delivered {
			delivered = "no"
		}
		tw.AppendRow(table.Row{
			rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Repository,
			rec.Workflow,
			rec.RunID,
			rec.Status,
			string(rec.Format),
			delivered,
			truncate(rec.Error, 60),
		})
	}
	return tw.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
