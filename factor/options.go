package factor

import (
	"github.com/YuminosukeSato/pricefactor/pkg/log"
)

// ProgressFunc is called after every completed epoch.
type ProgressFunc func(epoch, total int)

// Option configures a Model.
type Option func(*Model)

// WithNFactors sets the latent dimension.
func WithNFactors(n int) Option {
	return func(m *Model) {
		m.params.NFactors = n
	}
}

// WithLearningRate sets the SGD step size.
func WithLearningRate(lr float64) Option {
	return func(m *Model) {
		m.params.LearningRate = lr
	}
}

// WithRegularization sets the L2 penalty applied in every update.
func WithRegularization(reg float64) Option {
	return func(m *Model) {
		m.params.Regularization = reg
	}
}

// WithEpochs sets the number of passes over the table.
func WithEpochs(epochs int) Option {
	return func(m *Model) {
		m.params.Epochs = epochs
	}
}

// WithSeed sets the seed of the factor initialisation.
func WithSeed(seed int64) Option {
	return func(m *Model) {
		m.params.Seed = seed
	}
}

// WithParams replaces all hyperparameters at once.
func WithParams(p Params) Option {
	return func(m *Model) {
		m.params = p
	}
}

// WithLogger injects the logger used for training records.
func WithLogger(logger log.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithProgress registers a per-epoch progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(m *Model) {
		m.progress = fn
	}
}
