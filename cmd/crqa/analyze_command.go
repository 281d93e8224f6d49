package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"crqa/internal/batch"
	"crqa/internal/pipeline"
	"crqa/internal/recurrence"
	"crqa/internal/report"
	"crqa/internal/results"
)

type analyzeOutput struct {
	RunID   string               `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Input   string               `json:"input" yaml:"input"`
	Params  recurrence.Params    `json:"params" yaml:"params"`
	Summary batch.Summary        `json:"summary" yaml:"summary"`
	Results []results.DyadResult `json:"results" yaml:"results"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var (
		workers    int
		formatFlag string
		noStore    bool
		watch      bool
		overrides  paramFlags
	)

	cmd := &cobra.Command{
		Use:   "analyze INPUT.csv",
		Short: "Run CRQA over every dyad in a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			runner, err := pipeline.NewRunner(cfg, logger)
			if err != nil {
				return err
			}

			params, err := overrides.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			opts := pipeline.Options{Workers: workers, Params: &params, NoStore: noStore}
			policy := report.PolicyFromConfig(cfg.Report)
			input := args[0]

			emit := func(rep *pipeline.Report) error {
				return printAnalyzeReport(cmd, format, policy, input, rep)
			}
			if watch {
				return runner.Watch(cmd.Context(), input, opts, func(rep *pipeline.Report) {
					if err := emit(rep); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "print report: %v\n", err)
					}
				})
			}

			rep, err := runner.Run(cmd.Context(), input, opts)
			if err != nil {
				if errors.Is(err, pipeline.ErrLocked) {
					return fmt.Errorf("%w (use --no-store to analyze without recording the run)", err)
				}
				return err
			}
			return emit(rep)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel dyad workers (default from config, 0 = CPU count)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "table", "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Do not record the run in the results store")
	cmd.Flags().BoolVar(&watch, "watch", false, "Re-run whenever the input file changes")
	overrides.register(cmd)
	return cmd
}

func printAnalyzeReport(cmd *cobra.Command, format outputFormat, policy report.Policy, input string, rep *pipeline.Report) error {
	out := analyzeOutput{Input: input, Params: rep.Params, Summary: rep.Summary, Results: rep.Rows}
	if rep.Run != nil {
		out.RunID = rep.Run.ID
	}
	if handled, err := writeStructured(cmd, format, out); handled {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprint(w, renderResultsTable(rep.Rows, policy))
	printRunSummary(w, rep.Run, rep.Summary, rep.Duration)
	return nil
}

func renderResultsTable(rows []results.DyadResult, policy report.Policy) string {
	headers := []string{"Dyad", "N", "State", "RR", "DET", "meanL", "maxL", "ENTR", "LAM", "TT", "Error"}
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		state := string(row.State)
		if row.Failed() {
			table = append(table, []string{row.DyadID, strconv.Itoa(row.Length), "failed", "", "", "", "", "", "", "", row.Error})
			continue
		}
		table = append(table, []string{
			row.DyadID,
			strconv.Itoa(row.Length),
			state,
			policy.Format(row.RR),
			policy.Format(row.DET),
			policy.Format(row.MeanL),
			policy.Format(row.MaxL),
			policy.Format(row.ENTR),
			policy.Format(row.LAM),
			policy.Format(row.TT),
			"",
		})
	}
	aligns := metricAligns(3, len(headers))
	aligns[1] = alignRight
	aligns[len(aligns)-1] = alignLeft
	return renderTable(headers, table, aligns)
}

func printRunSummary(w io.Writer, run *results.Run, s batch.Summary, elapsed time.Duration) {
	label := "Unsaved run"
	if run != nil {
		label = "Run " + run.ShortID()
	}
	fmt.Fprintf(w, "%s: %d dyads (%d recurrent, %d no recurrence, %d degenerate, %d failed)",
		label, s.Total, s.Recurrent, s.NoRecurrence, s.Degenerate, s.Failed)
	if elapsed > 0 {
		fmt.Fprintf(w, " in %s", elapsed.Round(time.Millisecond))
	}
	fmt.Fprintln(w)
}
