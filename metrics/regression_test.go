package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

func TestRegressionMetrics(t *testing.T) {
	type metricFunc func(yTrue, yPred *mat.VecDense) (float64, error)

	tests := []struct {
		name   string
		metric metricFunc
		yTrue  *mat.VecDense
		yPred  *mat.VecDense
		want   float64
	}{
		{"MSE perfect", MSE, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 0},
		// ((0.5)^2 + (0.5)^2 + (-0.5)^2 + (-0.5)^2) / 4
		{"MSE half star off", MSE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.25},
		{"MSE larger errors", MSE, vec(5, 1, 3), vec(3, 3, 0), 17.0 / 3.0},
		{"RMSE constant offset", RMSE, vec(4, 4, 4, 4), vec(5, 5, 5, 5), 1},
		{"MAE half star off", MAE, vec(1, 2, 3, 4), vec(1.5, 2.5, 2.5, 3.5), 0.5},
		{"MAE swapped", MAE, vec(1, 2, 3, 4), vec(2, 1, 4, 3), 1},
		{"R2 perfect", R2Score, vec(1, 2, 3, 4, 5), vec(1, 2, 3, 4, 5), 1},
		// RSS = 20, TSS = 5
		{"R2 worse than mean", R2Score, vec(1, 2, 3, 4), vec(4, 3, 2, 1), -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.metric(tt.yTrue, tt.yPred)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-10)
		})
	}
}

func TestRegressionMetricsInvalidInput(t *testing.T) {
	funcs := map[string]func(yTrue, yPred *mat.VecDense) (float64, error){
		"MSE":     MSE,
		"RMSE":    RMSE,
		"MAE":     MAE,
		"R2Score": R2Score,
	}
	for name, fn := range funcs {
		t.Run(name, func(t *testing.T) {
			var valErr *errors.ValidationError

			_, err := fn(vec(1, 2, 3), vec(1, 2))
			assert.True(t, errors.As(err, &valErr), "length mismatch")

			_, err = fn(&mat.VecDense{}, &mat.VecDense{})
			assert.True(t, errors.As(err, &valErr), "empty vectors")
		})
	}
}

func TestR2ScoreNoVariance(t *testing.T) {
	_, err := R2Score(vec(3, 3, 3, 3, 3), vec(2, 3, 4, 3, 3))
	assert.True(t, errors.Is(err, ErrNoVariance))
}

func TestSaveLearningCurve(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "curve.png")
	require.NoError(t, SaveLearningCurve([]float64{1.2, 0.9, 0.7, 0.65}, path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	var valErr *errors.ValidationError
	err = SaveLearningCurve(nil, filepath.Join(dir, "empty.png"))
	assert.True(t, errors.As(err, &valErr))
}

func BenchmarkRMSE(b *testing.B) {
	size := 10000
	yTrue := mat.NewVecDense(size, nil)
	yPred := mat.NewVecDense(size, nil)

	for i := 0; i < size; i++ {
		yTrue.SetVec(i, float64(1+i%5))
		yPred.SetVec(i, float64(1+i%5)+0.1*float64(i%10))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = RMSE(yTrue, yPred)
	}
}
