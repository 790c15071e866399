// Command pricefactor trains the time-aware rating model, inspects and
// evaluates saved models, quotes prices and serves the pricing API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/pricefactor/config"
	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
	"github.com/YuminosukeSato/pricefactor/store"
)

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	configPath string
	cfg        *config.Config
	logger     log.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "pricefactor",
		Short:         "Time-aware rating model and tiered dynamic pricing",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "configuration file path (default $"+config.ConfigPathEnvVar+")")

	root.AddCommand(
		newTrainCommand(a),
		newEvaluateCommand(a),
		newPriceCommand(a),
		newInspectCommand(a),
		newServeCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = log.New(cmd.ErrOrStderr(), level, cfg.Logging.Format)
	return nil
}

// modelStore returns a file store for override, or the configured store.
func (a *app) modelStore(override string) (store.Store, error) {
	if override != "" {
		return store.NewFileStore(override), nil
	}
	return store.New(a.cfg.Model)
}

func (a *app) loadState(ctx context.Context, override string) (*factor.State, error) {
	s, err := a.modelStore(override)
	if err != nil {
		return nil, err
	}
	state, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Model loaded", log.OperationKey, log.OperationLoad, "store.location", s.Location())
	return state, nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
