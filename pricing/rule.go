// Package pricing turns a predicted rating into a final price.
//
// A Rule is a pure function of (base price, predicted rating). The Calculator
// composes a rating predictor with a Rule and is the single entry point used
// by the HTTP layer.
package pricing

import (
	"sort"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// Rule maps a base price and a predicted rating to a final price.
type Rule interface {
	Apply(basePrice, predictedRating float64) float64
}

// Tier applies Multiplier when the predicted rating is at least MinRating.
type Tier struct {
	MinRating  float64 `json:"min_rating" koanf:"min_rating"`
	Multiplier float64 `json:"multiplier" koanf:"multiplier"`
}

// TieredRule evaluates its tiers top-down; the first tier whose MinRating is
// reached wins, and Fallback applies below every tier.
type TieredRule struct {
	Tiers    []Tier  `json:"tiers" koanf:"tiers"`
	Fallback float64 `json:"fallback" koanf:"fallback"`
}

// DefaultRule returns the standard rule:
//
//	rating >= 4.5        x 1.20
//	3.0 <= rating < 4.5  x 1.10
//	rating < 3.0         x 0.90
func DefaultRule() TieredRule {
	return TieredRule{
		Tiers: []Tier{
			{MinRating: 4.5, Multiplier: 1.20},
			{MinRating: 3.0, Multiplier: 1.10},
		},
		Fallback: 0.90,
	}
}

// Multiplier returns the multiplier selected for predictedRating.
func (r TieredRule) Multiplier(predictedRating float64) float64 {
	for _, t := range r.Tiers {
		if predictedRating >= t.MinRating {
			return t.Multiplier
		}
	}
	return r.Fallback
}

// Apply implements Rule.
func (r TieredRule) Apply(basePrice, predictedRating float64) float64 {
	return basePrice * r.Multiplier(predictedRating)
}

// Validate checks a rule loaded from configuration: tiers strictly
// descending by MinRating, every threshold finite, every multiplier finite
// and positive.
func (r TieredRule) Validate() error {
	if !errors.IsFinite(r.Fallback) || r.Fallback <= 0 {
		return errors.NewValidationError("pricing.fallback", "must be finite and positive", r.Fallback)
	}
	for i, t := range r.Tiers {
		if !errors.IsFinite(t.MinRating) {
			return errors.NewValidationError("pricing.tiers.min_rating", "must be finite", t.MinRating)
		}
		if !errors.IsFinite(t.Multiplier) || t.Multiplier <= 0 {
			return errors.NewValidationError("pricing.tiers.multiplier", "must be finite and positive", t.Multiplier)
		}
		if i > 0 && t.MinRating >= r.Tiers[i-1].MinRating {
			return errors.NewValidationError("pricing.tiers", "thresholds must be strictly descending", t.MinRating)
		}
	}
	return nil
}

// Sorted returns a copy of r with tiers ordered by descending MinRating.
func (r TieredRule) Sorted() TieredRule {
	tiers := append([]Tier(nil), r.Tiers...)
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinRating > tiers[j].MinRating })
	return TieredRule{Tiers: tiers, Fallback: r.Fallback}
}

// Apply prices with DefaultRule.
func Apply(basePrice, predictedRating float64) float64 {
	return DefaultRule().Apply(basePrice, predictedRating)
}
