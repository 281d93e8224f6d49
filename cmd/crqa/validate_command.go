package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"crqa/internal/coding"
	"crqa/internal/dyad"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var timeline string

	cmd := &cobra.Command{
		Use:         "validate INPUT.csv",
		Short:       "Check every dyad against the coding scheme",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dyads, err := dyad.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader(fmt.Sprintf("Dyads in %s", args[0]), colorize) {
				fmt.Fprintln(out, line)
			}

			failed := 0
			for _, d := range dyads {
				err := d.Validate()
				if err != nil {
					failed++
				}
				for _, line := range dyadValidationLines(d.ID, d.Len(), err, colorize) {
					fmt.Fprintln(out, line)
				}
			}

			if id := strings.TrimSpace(timeline); id != "" {
				d, ok := dyad.Find(dyads, id)
				if !ok {
					return fmt.Errorf("dyad %q not found in %s", id, args[0])
				}
				if err := printTimeline(cmd, d, colorize); err != nil {
					return err
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d dyads failed validation", failed, len(dyads))
			}
			fmt.Fprintf(out, "All %d dyads valid\n", len(dyads))
			return nil
		},
	}

	cmd.Flags().StringVar(&timeline, "timeline", "", "Print the decoded timeline of one dyad")
	return cmd
}

// printTimeline prints each timepoint of a valid dyad with both channels'
// states in words.
func printTimeline(cmd *cobra.Command, d dyad.Dyad, colorize bool) error {
	events, err := coding.Decode(d.Parent, d.Child)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Timeline "+d.ID, colorize) {
		fmt.Fprintln(out, line)
	}
	rows := make([][]string, 0, len(events))
	for i, ev := range events {
		parent, child := ev.States()
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			ev.Speaker.String(),
			parent.Label(),
			child.Label(),
		})
	}
	fmt.Fprint(out, renderTable([]string{"#", "Speaker", "Parent", "Child"}, rows, []columnAlignment{alignRight}))
	return nil
}
