package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/pricing"
	"github.com/YuminosukeSato/pricefactor/server"
	"github.com/YuminosukeSato/pricefactor/store"
)

func newServeCommand(a *app) *cobra.Command {
	var modelPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the model and serve the pricing API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := a.modelStore(modelPath)
			if err != nil {
				return err
			}
			state, err := store.LoadWithRetry(ctx, s,
				store.WithMaxTries(a.cfg.Model.LoadRetries),
				store.WithRetryLogger(a.logger),
			)
			if err != nil {
				return err
			}

			m := factor.NewModel(factor.WithLogger(a.logger))
			if err := m.Load(state); err != nil {
				return err
			}
			calc := pricing.NewCalculator(m, a.cfg.Rule(), pricing.WithCalculatorLogger(a.logger))
			return server.New(calc, m, a.logger).Run(ctx, a.cfg.API)
		},
	}
	cmd.Flags().StringVar(&modelPath, "model", "", "model file (default: configured store)")
	return cmd
}
