// Package pricefactor estimates how much a user will like a product on a
// given purchase date and turns that estimate into a price.
//
// The rating model is a biased matrix factorization with per-date user and
// item bias terms, trained by stochastic gradient descent. A tiered pricing
// rule maps the predicted rating to a multiplier on a base price.
//
// # Installation
//
//	go get github.com/YuminosukeSato/pricefactor
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/pricefactor/dataset"
//	    "github.com/YuminosukeSato/pricefactor/factor"
//	    "github.com/YuminosukeSato/pricefactor/pricing"
//	)
//
//	func main() {
//	    table, err := dataset.LoadFile("purchases.csv", dataset.WithSkipIncomplete())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    model := factor.NewModel(factor.WithNFactors(20), factor.WithEpochs(20))
//	    if err := model.Fit(context.Background(), table); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    calc := pricing.NewCalculator(model, pricing.DefaultRule())
//	    price, err := calc.CalculatePrice(context.Background(), "alice", "kettle", "2023-01-02", 50)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println("final price:", price)
//	}
//
// # Packages
//
//   - dataset: training rows, CSV loading and purchase-date normalization
//   - factor: the time-aware factor model, training, evaluation and model blobs
//   - pricing: tiered pricing rules and the price calculator
//   - metrics: regression metrics (MSE, RMSE, MAE, R²) and learning curves
//   - store: local and S3-compatible model storage with retrying load
//   - server: the HTTP pricing API
//   - config: layered configuration (defaults, YAML, environment)
//   - core/model: estimator interfaces, fitted-state tracking, summaries
//   - core/parallel: parallel batch helpers
//   - pkg/errors, pkg/log: typed errors and structured logging
//
// The pricefactor command in cmd/pricefactor wraps training, evaluation,
// price quotes and the HTTP server.
package pricefactor
