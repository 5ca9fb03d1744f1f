package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"smcextract/internal/extract"
	"smcextract/internal/manifest"
)

func newResetCommand(cmdCtx *commandContext) *cobra.Command {
	var subject string
	var performance string
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Requeue failed units, or force one unit to re-extract",
		Long: `Without flags, every failed unit returns to pending for the next run.
With --subject and --performance plus --force, the unit's manifest row,
output tree, and completion marker are removed so the next run extracts
it from scratch.`,
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

			out := cmd.OutOrStdout()

			if subject == "" && performance == "" {
				count, err := store.ResetFailed(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Requeued %d failed unit(s).\n", count)
				return nil
			}

			if subject == "" || performance == "" {
				return fmt.Errorf("--subject and --performance must be given together")
			}
			if !force {
				return fmt.Errorf("clearing %s/%s deletes its extracted output; pass --force to confirm", subject, performance)
			}

			unit := extract.Unit{Subject: subject, Performance: performance}
			layout := extract.NewLayout(cfg.Paths.OutputDir)
			if err := layout.RemoveUnit(unit); err != nil {
				return fmt.Errorf("remove output tree: %w", err)
			}
			if err := store.Clear(cmd.Context(), unit.Key()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Cleared %s: output removed, unit will re-extract on the next run.\n", unit)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "Subject id of the unit to clear")
	cmd.Flags().StringVar(&performance, "performance", "", "Performance of the unit to clear")
	cmd.Flags().BoolVar(&force, "force", false, "Confirm deletion of the unit's extracted output")
	return cmd
}
