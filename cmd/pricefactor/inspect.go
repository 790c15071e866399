package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInspectCommand(a *app) *cobra.Command {
	var modelPath string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print the summary of a saved model as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			state, err := a.loadState(cmd.Context(), modelPath)
			if err != nil {
				return err
			}
			summary := state.Summary()
			data, err := summary.ToJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "model file (default: configured store)")
	return cmd
}
