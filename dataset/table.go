// Package dataset holds the training table consumed by the factor model and
// the loaders that produce it.
//
// A Table is an ordered sequence of Rating rows. Order matters: the trainer
// walks the rows exactly as they appear, every epoch. Timestamps are opaque
// string keys; the model compares them for equality and never parses them.
package dataset

import (
	"math"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// Rating is one observed (user, item, rating, time) interaction.
type Rating struct {
	UserID    string  `json:"user_id"`
	ItemID    string  `json:"product_id"`
	Rating    float64 `json:"rating"`
	Timestamp string  `json:"purchase_date"`
}

// Table is an ordered training table.
type Table []Rating

// Validate checks the whole table and returns a *errors.DataError for the
// first problem found: an empty table, a row with an empty user, item or
// timestamp, or a rating that is NaN or infinite.
func (t Table) Validate() error {
	if len(t) == 0 {
		return errors.NewEmptyDataError("Validate")
	}
	for i, r := range t {
		switch {
		case r.UserID == "":
			return errors.NewDataError("Validate", i, "user_id", "missing required field")
		case r.ItemID == "":
			return errors.NewDataError("Validate", i, "product_id", "missing required field")
		case r.Timestamp == "":
			return errors.NewDataError("Validate", i, "purchase_date", "missing required field")
		case math.IsNaN(r.Rating) || math.IsInf(r.Rating, 0):
			return errors.NewDataError("Validate", i, "rating", "non-numeric rating")
		}
	}
	return nil
}

// Ratings returns the rating column in table order.
func (t Table) Ratings() []float64 {
	return lo.Map(t, func(r Rating, _ int) float64 { return r.Rating })
}

// Mean returns the arithmetic mean of all ratings, or 0 for an empty table.
func (t Table) Mean() float64 {
	if len(t) == 0 {
		return 0
	}
	return stat.Mean(t.Ratings(), nil)
}

// Users returns the distinct user ids in order of first appearance.
func (t Table) Users() []string {
	return lo.Uniq(lo.Map(t, func(r Rating, _ int) string { return r.UserID }))
}

// Items returns the distinct item ids in order of first appearance.
func (t Table) Items() []string {
	return lo.Uniq(lo.Map(t, func(r Rating, _ int) string { return r.ItemID }))
}

// Timestamps returns the distinct timestamp keys in order of first appearance.
func (t Table) Timestamps() []string {
	return lo.Uniq(lo.Map(t, func(r Rating, _ int) string { return r.Timestamp }))
}
