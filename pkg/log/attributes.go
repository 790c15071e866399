// Package log defines standard attribute keys for training and pricing operations.
//
// Using these keys keeps log records from the trainer, the price calculator and
// the HTTP server consistent and filterable. They follow a hierarchical naming
// convention (e.g. "model.name", "data.samples").

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "calculate_price", "load", "save"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component is performing the operation.
	// Examples: "factor", "pricing", "server", "store"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of rows in the training table.
	SamplesKey = "data.samples"

	// UsersKey indicates the number of distinct users.
	UsersKey = "data.users"

	// ItemsKey indicates the number of distinct items.
	ItemsKey = "data.items"

	// TimestampsKey indicates the number of distinct timestamps.
	TimestampsKey = "data.timestamps"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records the training loss (RMSE of the epoch).
	LossKey = "metrics.loss"

	// RMSEKey records evaluation RMSE.
	RMSEKey = "metrics.rmse"

	// MAEKey records evaluation MAE.
	MAEKey = "metrics.mae"

	// EpochKey records the current epoch number during training.
	EpochKey = "training.epoch"

	// EpochsKey records the total number of epochs.
	EpochsKey = "training.epochs"
)

// Pricing Context
const (
	UserIDKey          = "pricing.user_id"
	ItemIDKey          = "pricing.item_id"
	TimestampKey       = "pricing.timestamp"
	BasePriceKey       = "pricing.base_price"
	PredictedRatingKey = "pricing.predicted_rating"
	MultiplierKey      = "pricing.multiplier"
	FinalPriceKey      = "pricing.final_price"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"
)

// Hyperparameters and Configuration
const (
	NFactorsKey       = "hyperparams.n_factors"
	LearningRateKey   = "hyperparams.learning_rate"
	RegularizationKey = "hyperparams.regularization"
	RandomSeedKey     = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit            = "fit"
	OperationPredict        = "predict"
	OperationCalculatePrice = "calculate_price"
	OperationLoad           = "load"
	OperationSave           = "save"
	OperationEvaluate       = "evaluate"

	PhaseTraining  = "training"
	PhaseInference = "inference"

	ErrorEmptyData     = "EMPTY_DATA"
	ErrorInvalidInput  = "INVALID_INPUT"
	ErrorSerialization = "SERIALIZATION"
	ErrorNumerical     = "NUMERICAL_INSTABILITY"
	ErrorOrchestration = "ORCHESTRATION"
)
