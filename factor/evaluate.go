package factor

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/metrics"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// Scores are the evaluation metrics of a state over a table.
type Scores struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	// R2 is NaN when every rating in the table is identical.
	R2 float64 `json:"r2"`
}

// Evaluate predicts every row of table with state and scores the predictions
// against the observed ratings.
func Evaluate(state *State, table dataset.Table) (Scores, error) {
	if state == nil {
		return Scores{}, errors.WithStack(errors.ErrNotFitted)
	}
	if err := table.Validate(); err != nil {
		return Scores{}, err
	}

	yTrue := mat.NewVecDense(len(table), table.Ratings())
	yPred := mat.NewVecDense(len(table), state.PredictBatch(table))

	var scores Scores
	var err error
	if scores.RMSE, err = metrics.RMSE(yTrue, yPred); err != nil {
		return Scores{}, err
	}
	if scores.MAE, err = metrics.MAE(yTrue, yPred); err != nil {
		return Scores{}, err
	}
	scores.R2, err = metrics.R2Score(yTrue, yPred)
	if errors.Is(err, metrics.ErrNoVariance) {
		scores.R2 = math.NaN()
	} else if err != nil {
		return Scores{}, err
	}
	return scores, nil
}
