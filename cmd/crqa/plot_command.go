package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"crqa/internal/dyad"
	"crqa/internal/fileutil"
	"crqa/internal/recurrence"
	"crqa/internal/report"
)

func newPlotCommand(ctx *commandContext) *cobra.Command {
	var (
		dyadID    string
		svgPath   string
		outDir    string
		title     string
		overrides paramFlags
	)

	cmd := &cobra.Command{
		Use:   "plot INPUT.csv",
		Short: "Render the recurrence matrix of one dyad",
		Long: "Render the cross-recurrence matrix of one dyad. Rows are parent timepoints and\n" +
			"columns child timepoints. Without --svg the matrix is printed as text.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			params, err := overrides.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			if dir := strings.TrimSpace(outDir); dir != "" {
				return plotAll(cmd, args[0], dir, params)
			}
			d, err := loadDyad(args[0], dyadID)
			if err != nil {
				return err
			}
			res, err := d.Analyze(params)
			if err != nil {
				return err
			}
			m := res.Matrix()
			policy := report.PolicyFromConfig(cfg.Report)
			policy.CoalesceNA = false

			out := cmd.OutOrStdout()
			target := strings.TrimSpace(svgPath)
			if target == "" {
				if err := report.WriteTextPlot(out, m); err != nil {
					return err
				}
			} else {
				plotCfg := report.DefaultPlotConfig()
				plotCfg.TheilerWindow = params.TheilerWindow
				plotCfg.Title = title
				if plotCfg.Title == "" {
					plotCfg.Title = fmt.Sprintf("Dyad %s (RR %s%%)", d.ID, policy.Format(res.RR))
				}
				svg := report.RecurrencePlotSVG(m, plotCfg)
				if err := fileutil.WriteAtomic(target, 0o644, func(w io.Writer) error {
					_, err := io.WriteString(w, svg)
					return err
				}); err != nil {
					return fmt.Errorf("write plot: %w", err)
				}
				fmt.Fprintf(out, "Wrote %dx%d recurrence plot to %s\n", m.Size(), m.Size(), target)
			}
			fmt.Fprintf(out, "Dyad %s: %s, RR %s, DET %s\n", d.ID, res.State, policy.Format(res.RR), policy.Format(res.DET))
			return nil
		},
	}

	cmd.Flags().StringVarP(&dyadID, "dyad", "d", "", "Dyad ID (optional when the file holds one dyad)")
	cmd.Flags().StringVar(&svgPath, "svg", "", "Write an SVG plot to this path instead of printing text")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Write an SVG plot for every valid dyad into this directory")
	cmd.Flags().StringVar(&title, "title", "", "SVG title (default: dyad ID and RR)")
	overrides.register(cmd)
	return cmd
}

// plotAll writes <dyad>.svg for each dyad that passes validation and reports
// the ones that do not. Dyads whose IDs sanitize to the same name get a
// numbered suffix instead of overwriting each other.
func plotAll(cmd *cobra.Command, input, dir string, params recurrence.Params) error {
	dyads, err := dyad.Load(input)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	written := 0
	taken := make(map[string]string, len(dyads))
	for _, d := range dyads {
		res, err := d.Analyze(params)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skip dyad %s: %v\n", d.ID, err)
			continue
		}
		plotCfg := report.DefaultPlotConfig()
		plotCfg.TheilerWindow = params.TheilerWindow
		plotCfg.Title = "Dyad " + d.ID
		svg := report.RecurrencePlotSVG(res.Matrix(), plotCfg)
		name, clash := plotFileName(taken, d.ID)
		if clash != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "dyad %s plotted as %s (%s.svg belongs to dyad %s)\n",
				d.ID, name, fileutil.SafeName(d.ID), clash)
		}
		target := filepath.Join(dir, name)
		if err := fileutil.WriteFileAtomic(target, []byte(svg), 0o644); err != nil {
			return fmt.Errorf("write plot for dyad %s: %w", d.ID, err)
		}
		written++
	}
	fmt.Fprintf(out, "Wrote %d of %d plots to %s\n", written, len(dyads), dir)
	return nil
}

func newProfileCommand(ctx *commandContext) *cobra.Command {
	var (
		dyadID     string
		maxLag     int
		formatFlag string
	)

	cmd := &cobra.Command{
		Use:   "profile INPUT.csv",
		Short: "Show the diagonal recurrence profile of one dyad",
		Long: "Show the recurrence rate on each diagonal around the line of incidence.\n" +
			"Positive lags mean the child follows the parent.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(formatFlag)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			params, err := cfg.RecurrenceParams()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-lag") {
				maxLag = cfg.Analysis.ProfileMaxLag
			}
			d, err := loadDyad(args[0], dyadID)
			if err != nil {
				return err
			}
			if err := d.Validate(); err != nil {
				return err
			}
			m, err := recurrence.BuildMatrix(d.Parent, d.Child, params)
			if err != nil {
				return err
			}
			prof, err := recurrence.DiagonalProfile(m, maxLag)
			if err != nil {
				return err
			}

			if handled, err := writeStructured(cmd, format, struct {
				DyadID  string             `json:"dyad_id" yaml:"dyad_id"`
				Profile recurrence.Profile `json:"profile" yaml:"profile"`
			}{d.ID, prof}); handled {
				return err
			}

			precision := cfg.Report.Precision
			rows := make([][]string, 0, len(prof.Lags))
			for i, lag := range prof.Lags {
				marker := ""
				if lag == prof.PeakLag {
					marker = "peak"
				}
				rows = append(rows, []string{fmt.Sprintf("%+d", lag), fmt.Sprintf("%.*f", precision, prof.Rates[i]), marker})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTable([]string{"Lag", "RR %", ""}, rows, []columnAlignment{alignRight, alignRight, alignLeft}))
			fmt.Fprintf(out, "Dyad %s: peak %.*f%% at lag %+d\n", d.ID, precision, prof.Peak, prof.PeakLag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dyadID, "dyad", "d", "", "Dyad ID (optional when the file holds one dyad)")
	cmd.Flags().IntVar(&maxLag, "max-lag", 5, "Largest lag in either direction (default from config)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "table", "Output format: table, json or yaml")
	return cmd
}

// plotFileName returns a file name for id that no earlier dyad in taken has
// claimed, adding -2, -3, ... when the sanitized name is in use. Names are
// compared case-insensitively. clash names the dyad that holds the plain name.
func plotFileName(taken map[string]string, id string) (name, clash string) {
	base := fileutil.SafeName(id)
	name = base + ".svg"
	owner, used := taken[strings.ToLower(name)]
	for n := 2; used; n++ {
		clash = owner
		name = fmt.Sprintf("%s-%d.svg", base, n)
		_, used = taken[strings.ToLower(name)]
	}
	taken[strings.ToLower(name)] = id
	return name, clash
}
