package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crqa/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [INPUT.csv]",
		Short: "Run readiness checks for the data directory, store and input",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			input := ""
			if len(args) > 0 {
				input = args[0]
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			checks := preflight.RunAll(cmd.Context(), cfg, input)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			if ctx.configPath != "" {
				fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			}
			for _, line := range preflightLines(checks, colorize) {
				fmt.Fprintln(out, line)
			}
			if failed := preflight.Failed(checks); len(failed) > 0 {
				return fmt.Errorf("%d preflight checks failed", len(failed))
			}
			return nil
		},
	}
}
