package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
)

func newEvaluateCommand(a *app) *cobra.Command {
	var dataPath, modelPath string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Report RMSE, MAE and R2 of a saved model on a CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			table, err := dataset.LoadFile(dataPath, dataset.WithSkipIncomplete(), dataset.WithTimestampNormalization())
			if err != nil {
				return err
			}
			state, err := a.loadState(cmd.Context(), modelPath)
			if err != nil {
				return err
			}
			scores, err := factor.Evaluate(state, table)
			if err != nil {
				return err
			}
			a.logger.Info("Model evaluated",
				log.OperationKey, log.OperationEvaluate,
				log.SamplesKey, len(table),
				log.RMSEKey, scores.RMSE,
				log.MAEKey, scores.MAE,
			)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "RMSE: %.6f\n", scores.RMSE)
			fmt.Fprintf(out, "MAE:  %.6f\n", scores.MAE)
			fmt.Fprintf(out, "R2:   %.6f\n", scores.R2)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "evaluation CSV")
	cmd.Flags().StringVar(&modelPath, "model", "", "model file (default: configured store)")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
