package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"crqa/internal/batch"
	"crqa/internal/recurrence"
	"crqa/internal/report"
	"crqa/internal/results"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect stored analysis runs",
	}

	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsDeleteCommand(ctx))

	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var (
		limit      int
		formatFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *results.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if runs == nil {
					runs = []*results.Run{}
				}
				if handled, err := writeStructured(cmd, format, runs); handled {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ShortID(),
						run.CreatedAt.Local().Format(time.DateTime),
						string(run.Status),
						strconv.Itoa(run.DyadCount),
						strconv.Itoa(run.FailedCount),
						run.InputPath,
					})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Created", "Status", "Dyads", "Failed", "Input"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 = all)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "table", "Output format: table, json or yaml")
	return cmd
}

type runDetail struct {
	Run     *results.Run         `json:"run" yaml:"run"`
	Summary report.Summary       `json:"summary" yaml:"summary"`
	Results []results.DyadResult `json:"results" yaml:"results"`
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string

	cmd := &cobra.Command{
		Use:   "show [RUN_ID|latest]",
		Short: "Show the per-dyad results of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			policy := report.PolicyFromConfig(cfg.Report)
			return ctx.withStore(func(store *results.Store) error {
				run, rows, err := loadRun(cmd, store, args)
				if err != nil {
					return err
				}
				detail := runDetail{Run: run, Summary: report.Summarize(rows, policy), Results: rows}
				if handled, err := writeStructured(cmd, format, detail); handled {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.Status)
				fmt.Fprintf(out, "Input:  %s\n", run.InputPath)
				fmt.Fprintf(out, "Params: %s\n", formatParams(run.Params))
				if run.ErrorMessage != "" {
					fmt.Fprintf(out, "Error:  %s\n", run.ErrorMessage)
				}
				fmt.Fprint(out, renderResultsTable(rows, policy))
				fmt.Fprintf(out, "Mean RR %s, DET %s, LAM %s over %d analyzed dyads\n",
					policy.Format(detail.Summary.MeanRR),
					policy.Format(detail.Summary.MeanDET),
					policy.Format(detail.Summary.MeanLAM),
					detail.Summary.Analyzed,
				)
				printRunSummary(out, run, summaryFromRows(rows), 0)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "table", "Output format: table, json or yaml")
	return cmd
}

func newRunsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete RUN_ID",
		Short: "Delete a run and its results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *results.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := store.DeleteRun(cmd.Context(), run.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Run %s deleted\n", run.ShortID())
				return nil
			})
		},
	}
}

// loadRun resolves the optional run reference argument and loads its rows.
func loadRun(cmd *cobra.Command, store *results.Store, args []string) (*results.Run, []results.DyadResult, error) {
	ref := results.LatestRef
	if len(args) > 0 {
		ref = args[0]
	}
	run, err := store.GetRun(cmd.Context(), ref)
	if err != nil {
		return nil, nil, err
	}
	rows, err := store.Results(cmd.Context(), run.ID)
	if err != nil {
		return nil, nil, err
	}
	return run, rows, nil
}

func summaryFromRows(rows []results.DyadResult) batch.Summary {
	s := batch.Summary{Total: len(rows)}
	for _, row := range rows {
		switch {
		case row.Failed():
			s.Failed++
		case row.State == recurrence.StateRecurrent:
			s.Recurrent++
		case row.State == recurrence.StateNoRecurrence:
			s.NoRecurrence++
		case row.State == recurrence.StateDegenerate:
			s.Degenerate++
		}
	}
	return s
}

func formatParams(p recurrence.Params) string {
	s := fmt.Sprintf("match=%s theiler=%d min_diag=%d min_vert=%d lam=%s embed=%d delay=%d",
		p.Match, p.TheilerWindow, p.MinDiagLine, p.MinVertLine, p.Direction, p.Embed, p.Delay)
	if p.Match == recurrence.MatchDistance {
		s += fmt.Sprintf(" radius=%g norm=%s", p.Radius, p.Norm)
	}
	return s
}
