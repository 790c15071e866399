package factor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/pricefactor/core/model"
	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
)

// fitted is what a successful Fit or Load publishes.
type fitted struct {
	state  *State
	losses []float64
}

// Model is a time-aware factor model.
//
// Predict may be called from any number of goroutines, including while Fit is
// running: readers keep seeing the previously published state until the new
// one is complete. Concurrent calls to Fit are serialized.
type Model struct {
	current atomic.Pointer[fitted]
	fitMu   sync.Mutex
	status  *model.StateManager

	params   Params
	logger   log.Logger
	progress ProgressFunc
	id       string
}

var _ model.Estimator = (*Model)(nil)

// NewModel creates an unfitted model. Hyperparameters start from DefaultParams.
func NewModel(opts ...Option) *Model {
	m := &Model{
		status: model.NewStateManager(),
		params: DefaultParams(),
		logger: log.NewNopLogger(),
		id:     uuid.NewString(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(
		log.ModelNameKey, ModelType,
		log.EstimatorIDKey, m.id,
		log.ComponentKey, "factor",
	)
	return m
}

// ID returns the estimator instance id used in logs and summaries.
func (m *Model) ID() string { return m.id }

// Params returns the hyperparameters.
func (m *Model) Params() Params {
	m.fitMu.Lock()
	defer m.fitMu.Unlock()
	return m.params
}

// IsFitted reports whether a state has been published by Fit or Load.
func (m *Model) IsFitted() bool { return m.status.IsFitted() }

// Dimensions returns the number of users, items and rows behind the published state.
func (m *Model) Dimensions() (nUsers, nItems, nSamples int) { return m.status.GetDimensions() }

// Fit trains the model on table from scratch.
//
// Params and the whole table are validated before anything is built. On any
// failure, including cancellation of ctx, the previously published state and
// loss history are left as they were.
func (m *Model) Fit(ctx context.Context, table dataset.Table) error {
	m.fitMu.Lock()
	defer m.fitMu.Unlock()

	if err := m.params.Validate(); err != nil {
		return err
	}
	if err := table.Validate(); err != nil {
		return err
	}

	start := time.Now()
	m.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, len(table),
		log.NFactorsKey, m.params.NFactors,
		log.LearningRateKey, m.params.LearningRate,
		log.RegularizationKey, m.params.Regularization,
		log.EpochsKey, m.params.Epochs,
		log.RandomSeedKey, m.params.Seed,
	)

	tr := newTrainer(m.params, m.logger, m.progress)
	state, err := tr.train(ctx, table)
	if err != nil {
		return err
	}

	m.current.Store(&fitted{state: state, losses: tr.losses})
	st := state.Stats()
	m.status.SetFitted(st.Users, st.Items, len(table))

	attrs := []any{
		log.OperationKey, log.OperationFit,
		log.UsersKey, st.Users,
		log.ItemsKey, st.Items,
		log.TimestampsKey, st.Timestamps,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if n := len(tr.losses); n > 0 {
		attrs = append(attrs, log.LossKey, tr.losses[n-1])
	}
	m.logger.Info("Training completed", attrs...)
	return nil
}

// Predict estimates the rating for (userID, itemID, t). An unfitted model
// returns 0.
func (m *Model) Predict(userID, itemID, t string) float64 {
	f := m.current.Load()
	if f == nil {
		return 0
	}
	return f.state.Predict(userID, itemID, t)
}

// State returns the published state, or nil before the first successful Fit
// or Load. The returned state must not be modified.
func (m *Model) State() *State {
	f := m.current.Load()
	if f == nil {
		return nil
	}
	return f.state
}

// LossHistory returns the training RMSE of each epoch of the last Fit.
func (m *Model) LossHistory() []float64 {
	f := m.current.Load()
	if f == nil {
		return nil
	}
	return append([]float64(nil), f.losses...)
}

// Load publishes a previously trained state, typically one read by LoadState.
func (m *Model) Load(state *State) error {
	if state == nil {
		return errors.NewSerializationError("Model.Load", errors.New("nil state"))
	}
	if err := state.Validate(); err != nil {
		return errors.NewSerializationError("Model.Load", err)
	}

	m.fitMu.Lock()
	defer m.fitMu.Unlock()

	m.params = state.Params
	m.current.Store(&fitted{state: state})
	st := state.Stats()
	m.status.SetFitted(st.Users, st.Items, state.NSamples)
	m.logger.Info("Model loaded",
		log.OperationKey, log.OperationLoad,
		log.UsersKey, st.Users,
		log.ItemsKey, st.Items,
	)
	return nil
}

// Summary describes the model and its published state.
func (m *Model) Summary() model.ModelSummary {
	state := m.State()
	if state == nil {
		state = NewState(m.Params())
	}
	summary := state.Summary()
	summary.EstimatorID = m.id
	summary.IsFitted = m.IsFitted()
	if losses := m.LossHistory(); len(losses) > 0 {
		summary.Metadata = map[string]interface{}{
			"final_loss": losses[len(losses)-1],
			"epochs_run": len(losses),
		}
	}
	return summary
}

// Train fits a new model with params and returns its frozen state.
func Train(ctx context.Context, table dataset.Table, params Params, opts ...Option) (*State, error) {
	m := NewModel(append(opts, WithParams(params))...)
	if err := m.Fit(ctx, table); err != nil {
		return nil, err
	}
	return m.State(), nil
}
