package factor

import (
	"github.com/go-playground/validator/v10"

	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// Default hyperparameters.
const (
	DefaultNFactors       = 20
	DefaultLearningRate   = 0.005
	DefaultRegularization = 0.02
	DefaultEpochs         = 20
)

// Params holds the hyperparameters of the model. They are fixed at
// construction and never changed by Fit.
type Params struct {
	NFactors       int     `json:"n_factors" koanf:"n_factors" validate:"gte=1"`
	LearningRate   float64 `json:"lr" koanf:"lr" validate:"gt=0"`
	Regularization float64 `json:"reg" koanf:"reg" validate:"gte=0"`
	Epochs         int     `json:"n_epochs" koanf:"n_epochs" validate:"gte=1"`
	Seed           int64   `json:"seed" koanf:"seed"`
}

// DefaultParams returns the default hyperparameters.
func DefaultParams() Params {
	return Params{
		NFactors:       DefaultNFactors,
		LearningRate:   DefaultLearningRate,
		Regularization: DefaultRegularization,
		Epochs:         DefaultEpochs,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate returns a *errors.ValidationError naming the first invalid field.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return errors.NewValidationError(fe.Field(), "must satisfy "+fe.Tag()+"="+fe.Param(), fe.Value())
		}
		return errors.Wrap(err, "validate params")
	}
	if !errors.IsFinite(p.LearningRate) {
		return errors.NewValidationError("LearningRate", "must be finite", p.LearningRate)
	}
	if !errors.IsFinite(p.Regularization) {
		return errors.NewValidationError("Regularization", "must be finite", p.Regularization)
	}
	return nil
}

// asMap is used in summaries.
func (p Params) asMap() map[string]interface{} {
	return map[string]interface{}{
		"n_factors": p.NFactors,
		"lr":        p.LearningRate,
		"reg":       p.Regularization,
		"n_epochs":  p.Epochs,
		"seed":      p.Seed,
	}
}
