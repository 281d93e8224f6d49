package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crqa/internal/config"
	"crqa/internal/recurrence"
)

// paramFlags are the analysis overrides shared by analyze and plot.
// Unset flags leave the configured value in place.
type paramFlags struct {
	theilerWindow int
	lamDirection  string
}

func (f *paramFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.theilerWindow, "theiler-window", 0, "Exclude cells with |i-j| below this value (default from config)")
	cmd.Flags().StringVar(&f.lamDirection, "lam-direction", "", "Laminarity lines: vertical, horizontal or both (default from config)")
}

// resolve returns the configured parameters with any changed flags applied.
func (f *paramFlags) resolve(cmd *cobra.Command, cfg *config.Config) (recurrence.Params, error) {
	params, err := cfg.RecurrenceParams()
	if err != nil {
		return recurrence.Params{}, err
	}
	if cmd.Flags().Changed("theiler-window") {
		params.TheilerWindow = f.theilerWindow
	}
	if cmd.Flags().Changed("lam-direction") {
		if params.Direction, err = recurrence.ParseLineDirection(f.lamDirection); err != nil {
			return recurrence.Params{}, err
		}
	}
	if err := params.Validate(); err != nil {
		return recurrence.Params{}, fmt.Errorf("analysis flags: %w", err)
	}
	return params, nil
}
