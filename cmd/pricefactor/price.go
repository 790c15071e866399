package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/pricing"
)

func newPriceCommand(a *app) *cobra.Command {
	var (
		userID, productID, date, modelPath string
		basePrice                          float64
	)
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Quote the final price for one user, product and purchase date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := dataset.NormalizeTimestamp(date)
			if err != nil {
				return err
			}
			state, err := a.loadState(cmd.Context(), modelPath)
			if err != nil {
				return err
			}
			calc := pricing.NewCalculator(state, a.cfg.Rule(), pricing.WithCalculatorLogger(a.logger))
			price, err := calc.CalculatePrice(cmd.Context(), userID, productID, t, basePrice)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(price, 'f', -1, 64))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id")
	cmd.Flags().StringVar(&productID, "product", "", "product id")
	cmd.Flags().StringVar(&date, "date", "", "purchase date")
	cmd.Flags().Float64Var(&basePrice, "base-price", 0, "base price before the rating multiplier")
	cmd.Flags().StringVar(&modelPath, "model", "", "model file (default: configured store)")
	for _, name := range []string{"user", "product", "date", "base-price"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
