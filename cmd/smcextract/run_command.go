package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"smcextract/internal/extract"
	"smcextract/internal/logging"
	"smcextract/internal/manifest"
	"smcextract/internal/preflight"
	"smcextract/internal/transfer"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch and extract every configured unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireSelection(); err != nil {
				return err
			}

			// One extractor per machine: concurrent runs would race on
			// scratch space and the manifest.
			lock := flock.New(cfg.LockFilePath())
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire instance lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another smcextract run holds %s", cfg.LockFilePath())
			}
			defer func() {
				_ = lock.Unlock()
			}()

			if !skipPreflight {
				results := preflight.RunAll(cfg)
				for _, result := range results {
					if !result.Passed {
						fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", result.Name, result.Detail)
					}
				}
				if preflight.Failed(results) {
					return fmt.Errorf("preflight checks failed")
				}
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			store, err := manifest.Open(cfg.ManifestDBPath())
			if err != nil {
				return err
			}
			defer store.Close()

			manager := transfer.NewRclone(cfg.Transfer.Remote,
				transfer.WithBinary(cfg.Transfer.Binary),
				transfer.WithRootFolderID(cfg.Transfer.RootFolderID),
				transfer.WithTransfers(cfg.Transfer.Transfers))

			orchestrator, err := extract.New(cfg, store, manager, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := orchestrator.Run(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s: %d completed, %d skipped, %d failed\n",
				report.RunID, report.Completed, report.Skipped, report.Failed)
			for _, key := range report.RetryEligible {
				fmt.Fprintf(out, "  retryable: %s (run `smcextract reset` to requeue)\n", key)
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d unit(s) failed", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before running")
	return cmd
}
