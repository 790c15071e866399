package main

import (
	"context"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/metrics"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
)

func newTrainCommand(a *app) *cobra.Command {
	var (
		dataPath   string
		outPath    string
		curvePath  string
		strict     bool
		noProgress bool
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model from a purchase CSV and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []dataset.LoadOption{dataset.WithTimestampNormalization()}
			if !strict {
				opts = append(opts, dataset.WithSkipIncomplete())
			}
			table, err := dataset.LoadFile(dataPath, opts...)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout := a.cfg.ModelTraining.Timeout; timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			params := a.cfg.ModelTraining.Params()
			modelOpts := []factor.Option{factor.WithParams(params), factor.WithLogger(a.logger)}
			if !noProgress {
				bar := progressbar.NewOptions(params.Epochs,
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription("training"),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
				defer func() { _ = bar.Finish() }()
				modelOpts = append(modelOpts, factor.WithProgress(func(epoch, _ int) {
					_ = bar.Set(epoch)
				}))
			}

			m := factor.NewModel(modelOpts...)
			if err := m.Fit(ctx, table); err != nil {
				return err
			}

			s, err := a.modelStore(outPath)
			if err != nil {
				return err
			}
			if err := s.Save(ctx, m.State()); err != nil {
				return err
			}
			a.logger.Info("Model saved", log.OperationKey, log.OperationSave, "store.location", s.Location())

			losses := m.LossHistory()
			if curvePath != "" {
				if err := metrics.SaveLearningCurve(losses, curvePath); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "trained on %d rows, final loss %.6f, saved to %s\n",
				len(table), losses[len(losses)-1], s.Location())
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "training CSV (user_id, product_id, rating, purchase_date)")
	cmd.Flags().StringVar(&outPath, "out", "", "write the model to this file instead of the configured store")
	cmd.Flags().StringVar(&curvePath, "curve", "", "write the learning curve to this image file")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on incomplete rows instead of skipping them")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
