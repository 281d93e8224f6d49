package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"crqa/internal/fileutil"
	"crqa/internal/report"
	"crqa/internal/results"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		outPath string
		keepNA  bool
	)

	cmd := &cobra.Command{
		Use:   "export [RUN_ID|latest]",
		Short: "Export a run's per-dyad metrics as CSV",
		Long: "Export a run's per-dyad metrics as CSV for R or pandas. Undefined metrics\n" +
			"are written as 0 unless --keep-na (or report.coalesce_na = false) is set.\n" +
			"Dyads that failed validation always export NA.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			policy := report.PolicyFromConfig(cfg.Report)
			if keepNA {
				policy.CoalesceNA = false
			}

			return ctx.withStore(func(store *results.Store) error {
				run, rows, err := loadRun(cmd, store, args)
				if err != nil {
					return err
				}

				target := strings.TrimSpace(outPath)
				if target == "" || target == "-" {
					return report.NewCSVWriter(cmd.OutOrStdout(), policy).WriteAll(rows)
				}
				if err := fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
					return report.NewCSVWriter(w, policy).WriteAll(rows)
				}); err != nil {
					return fmt.Errorf("export run %s: %w", run.ShortID(), err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d dyads from run %s to %s\n", len(rows), run.ShortID(), target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination CSV file (default stdout)")
	cmd.Flags().BoolVar(&keepNA, "keep-na", false, "Write undefined metrics as NA instead of 0")
	return cmd
}
