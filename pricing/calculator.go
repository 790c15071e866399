package pricing

import (
	"context"

	"github.com/YuminosukeSato/pricefactor/core/model"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
)

// Calculator composes a rating predictor and a Rule.
// It is safe for concurrent use when the predictor is.
type Calculator struct {
	predictor model.RatingPredictor
	rule      Rule
	logger    log.Logger
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithCalculatorLogger sets the logger used for per-request debug records.
func WithCalculatorLogger(logger log.Logger) CalculatorOption {
	return func(c *Calculator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCalculator creates a Calculator. A nil rule means DefaultRule.
// A nil predictor is accepted here and reported by CalculatePrice.
func NewCalculator(predictor model.RatingPredictor, rule Rule, opts ...CalculatorOption) *Calculator {
	if rule == nil {
		rule = DefaultRule()
	}
	c := &Calculator{
		predictor: predictor,
		rule:      rule,
		logger:    log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(log.ComponentKey, "pricing")
	return c
}

// CalculatePrice returns rule.Apply(basePrice, predictor.Predict(userID, itemID, t)).
//
// Every failure is reported as a *errors.OrchestrationError: a nil predictor,
// a non-finite base price, a cancelled ctx, or a panic in the predictor or the
// rule.
func (c *Calculator) CalculatePrice(ctx context.Context, userID, itemID, t string, basePrice float64) (float64, error) {
	fail := func(err error) (float64, error) {
		return 0, errors.NewOrchestrationError("CalculatePrice", userID, itemID, err)
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if c.predictor == nil {
		return fail(errors.ErrNilPredictor)
	}
	if !errors.IsFinite(basePrice) {
		return fail(errors.NewValidationError("base_price", "must be finite", basePrice))
	}

	var rating float64
	price, err := errors.SafeCall("CalculatePrice", func() (float64, error) {
		rating = c.predictor.Predict(userID, itemID, t)
		return c.rule.Apply(basePrice, rating), nil
	})
	if err != nil {
		return fail(err)
	}

	if c.logger.Enabled(ctx, log.LevelDebug) {
		fields := []any{
			log.OperationKey, log.OperationCalculatePrice,
			log.UserIDKey, userID,
			log.ItemIDKey, itemID,
			log.TimestampKey, t,
			log.BasePriceKey, basePrice,
			log.PredictedRatingKey, rating,
			log.FinalPriceKey, price,
		}
		if tiered, ok := c.rule.(TieredRule); ok {
			fields = append(fields, log.MultiplierKey, tiered.Multiplier(rating))
		}
		c.logger.Debug("Price calculated", fields...)
	}
	return price, nil
}

// CalculatePrice prices one request with DefaultRule.
func CalculatePrice(predictor model.RatingPredictor, userID, itemID, t string, basePrice float64) (float64, error) {
	return NewCalculator(predictor, DefaultRule()).CalculatePrice(context.Background(), userID, itemID, t, basePrice)
}
