package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"crqa/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		runID  string
		dyadID string
		level  string
		lines  int
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show records from the crqa log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			filter := logs.Filter{RunID: strings.TrimSpace(runID), DyadID: strings.TrimSpace(dyadID)}
			if level != "" {
				var minLevel slog.Level
				if err := minLevel.UnmarshalText([]byte(level)); err != nil {
					return fmt.Errorf("invalid --level %q", level)
				}
				filter.MinLevel = &minLevel
			}

			out := cmd.OutOrStdout()
			opts := logs.TailOptions{Offset: -1, Limit: lines, Filter: filter}
			for {
				result, err := logs.Tail(cmd.Context(), cfg.LogFilePath(), opts)
				if err != nil {
					if errors.Is(err, cmd.Context().Err()) {
						return nil
					}
					return err
				}
				for _, rec := range result.Records {
					fmt.Fprintln(out, rec.Format())
				}
				if !follow {
					return nil
				}
				opts = logs.TailOptions{Offset: result.Offset, Filter: filter, Follow: true, Wait: time.Minute}
			}
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Only records of this run (ID or prefix)")
	cmd.Flags().StringVarP(&dyadID, "dyad", "d", "", "Only records of this dyad")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level: debug, info, warn or error")
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of records to show (0 = all)")
	cmd.Flags().BoolVarP(&follow, "follow", "F", false, "Keep printing new records")
	return cmd
}
