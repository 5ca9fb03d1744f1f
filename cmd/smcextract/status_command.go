package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"smcextract/internal/manifest"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the extraction manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := manifest.Open(cfg.ManifestDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			var filter []manifest.Status
			if statusFilter != "" {
				status, ok := manifest.ParseStatus(statusFilter)
				if !ok {
					return fmt.Errorf("unknown status %q", statusFilter)
				}
				filter = append(filter, status)
			}

			entries, err := store.List(cmd.Context(), filter...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Manifest is empty.")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				detail := entry.ErrorMessage
				if entry.Status == manifest.StatusFailed && entry.RetryEligible {
					detail += " (retryable)"
				}
				rows = append(rows, []string{
					entry.Subject,
					entry.Performance,
					string(entry.Status),
					strconv.Itoa(entry.CamerasExtracted),
					strconv.Itoa(entry.FrameCount),
					formatBytes(entry.SizeBytes),
					strconv.Itoa(entry.Attempts),
					detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Subject", "Performance", "Status", "Cams", "Frames", "Size", "Attempts", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))

			summary, err := store.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d unit(s): %d pending, %d in flight, %d completed, %d failed\n",
				summary.Total, summary.Pending, summary.InFlight, summary.Completed, summary.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "Only show units in this status")
	return cmd
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for n/div >= unit && exp < 4 {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTP"[exp])
}
