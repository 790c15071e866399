package pricing

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
)

func TestApplyBoundaries(t *testing.T) {
	// 100 * 1.1 is 110.00000000000001 in float64, so prices are compared
	// within a tolerance and the selected multiplier exactly.
	tests := []struct {
		rating     float64
		multiplier float64
		want       float64
	}{
		{4.5, 1.20, 120.0},
		{4.4999, 1.10, 110.0},
		{3.0, 1.10, 110.0},
		{2.9999, 0.90, 90.0},
		{5.0, 1.20, 120.0},
		{-1, 0.90, 90.0},
	}
	rule := DefaultRule()
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.rating), func(t *testing.T) {
			assert.Equal(t, tt.multiplier, rule.Multiplier(tt.rating))
			assert.InDelta(t, tt.want, Apply(100, tt.rating), 1e-9)
			assert.Equal(t, 100*tt.multiplier, Apply(100, tt.rating))
		})
	}
	assert.Equal(t, 120.0, Apply(100, 4.5))
	assert.Equal(t, 90.0, Apply(100, 2.9999))
}

func TestApplyIsTotalForFiniteInput(t *testing.T) {
	for _, rating := range []float64{math.Inf(1), math.Inf(-1), math.NaN(), 0, 1e300} {
		got := Apply(10, rating)
		assert.False(t, math.IsNaN(got), "rating %v", rating)
	}
	// NaN compares false against every threshold
	assert.Equal(t, 9.0, Apply(10, math.NaN()))
}

func TestTieredRuleValidate(t *testing.T) {
	require.NoError(t, DefaultRule().Validate())
	require.NoError(t, TieredRule{Fallback: 1}.Validate())

	tests := []struct {
		name string
		rule TieredRule
	}{
		{"zero fallback", TieredRule{Fallback: 0}},
		{"ascending tiers", TieredRule{Tiers: []Tier{{3, 1.1}, {4.5, 1.2}}, Fallback: 0.9}},
		{"duplicate threshold", TieredRule{Tiers: []Tier{{3, 1.1}, {3, 1.2}}, Fallback: 0.9}},
		{"negative multiplier", TieredRule{Tiers: []Tier{{3, -1}}, Fallback: 0.9}},
		{"nan threshold", TieredRule{Tiers: []Tier{{math.NaN(), 1}}, Fallback: 0.9}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var valErr *errors.ValidationError
			assert.True(t, errors.As(tt.rule.Validate(), &valErr))
		})
	}

	sorted := TieredRule{Tiers: []Tier{{3, 1.1}, {4.5, 1.2}}, Fallback: 0.9}.Sorted()
	assert.Equal(t, DefaultRule(), sorted)
}

type fixedPredictor float64

func (f fixedPredictor) Predict(string, string, string) float64 { return float64(f) }

type panickingPredictor struct{}

func (panickingPredictor) Predict(string, string, string) float64 { panic("boom") }

func TestCalculatorComposesPredictAndApply(t *testing.T) {
	c := NewCalculator(fixedPredictor(4.7), nil)
	price, err := c.CalculatePrice(context.Background(), "u", "i", "t", 50)
	require.NoError(t, err)
	assert.Equal(t, DefaultRule().Apply(50, 4.7), price)

	custom := TieredRule{Tiers: []Tier{{4, 2}}, Fallback: 1}
	price, err = NewCalculator(fixedPredictor(4.7), custom).CalculatePrice(context.Background(), "u", "i", "t", 50)
	require.NoError(t, err)
	assert.Equal(t, 100.0, price)

	price, err = CalculatePrice(fixedPredictor(2), "u", "i", "t", 10)
	require.NoError(t, err)
	assert.Equal(t, 9.0, price)
}

func TestCalculatorFailures(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		predictor interface{ Predict(string, string, string) float64 }
		ctx       context.Context
		base      float64
		target    error
	}{
		{"nil predictor", nil, context.Background(), 10, errors.ErrNilPredictor},
		{"nan base price", fixedPredictor(4), context.Background(), math.NaN(), nil},
		{"infinite base price", fixedPredictor(4), context.Background(), math.Inf(1), nil},
		{"cancelled", fixedPredictor(4), cancelled, 10, context.Canceled},
		{"panic", panickingPredictor{}, context.Background(), 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCalculator(tt.predictor, DefaultRule())
			_, err := c.CalculatePrice(tt.ctx, "u1", "p1", "t", tt.base)
			require.Error(t, err)

			var orchErr *errors.OrchestrationError
			require.True(t, errors.As(err, &orchErr))
			assert.Equal(t, "u1", orchErr.UserID)
			assert.Equal(t, "p1", orchErr.ItemID)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target))
			}
		})
	}
}

func TestCalculatorPanicIsRecovered(t *testing.T) {
	_, err := NewCalculator(panickingPredictor{}, nil).CalculatePrice(context.Background(), "u", "i", "t", 1)
	var panicErr *errors.PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "boom", panicErr.PanicValue)
}

func TestCalculatorLogsAtDebug(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	c := NewCalculator(fixedPredictor(3.2), nil, WithCalculatorLogger(logger))
	_, err := c.CalculatePrice(context.Background(), "u", "i", "t", 100)
	require.NoError(t, err)

	assert.True(t, logger.ContainsMessage("Price calculated"))
	assert.True(t, logger.ContainsField(log.MultiplierKey, 1.1))
	assert.True(t, logger.ContainsField(log.ComponentKey, "pricing"))
}

func TestEndToEndPricing(t *testing.T) {
	dates := []string{"2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04", "2023-01-05"}
	var table dataset.Table
	k := 0
	for _, user := range []string{"alice", "bob", "carol"} {
		for _, item := range []string{"kettle", "toaster"} {
			for _, d := range dates {
				table = append(table, dataset.Rating{
					UserID: user, ItemID: item, Timestamp: d,
					Rating: float64(1 + (k*7)%5),
				})
				k++
			}
		}
	}

	state, err := factor.Train(context.Background(), table, factor.Params{
		NFactors: 2, LearningRate: 0.05, Regularization: 0.02, Epochs: 100, Seed: 1,
	})
	require.NoError(t, err)

	const base = 51.38
	calc := NewCalculator(state, DefaultRule())
	for _, row := range table {
		price, err := calc.CalculatePrice(context.Background(), row.UserID, row.ItemID, row.Timestamp, base)
		require.NoError(t, err)

		rating := state.Predict(row.UserID, row.ItemID, row.Timestamp)
		assert.Equal(t, Apply(base, rating), price, "row %+v", row)
		assert.GreaterOrEqual(t, price, base*0.90)
		assert.LessOrEqual(t, price, base*1.20)

		viaPackage, err := CalculatePrice(state, row.UserID, row.ItemID, row.Timestamp, base)
		require.NoError(t, err)
		assert.Equal(t, price, viaPackage)
	}
}
