package factor

import (
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/pricefactor/core/model"
	"github.com/YuminosukeSato/pricefactor/core/parallel"
	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

// ModelType names the model in summaries and logs.
const ModelType = "TimeAwareFactorModel"

// SummaryVersion is the version of the summary document.
const SummaryVersion = "1"

// State is the full set of learned parameters.
//
// Parameters are stored in slices addressed by the dense ids of the three
// indexes. Time biases hold one scalar per (entity, exact timestamp) pair seen
// in training, keyed by the timestamp's dense id.
//
// A State obtained from Train, Model.State or LoadState must be treated as
// read-only.
type State struct {
	Params     Params
	GlobalMean float64
	NSamples   int

	Users      *Index
	Items      *Index
	Timestamps *Index

	UserFactor [][]float64
	ItemFactor [][]float64
	UserBias   []float64
	ItemBias   []float64

	UserTimeBias []map[int32]float64
	ItemTimeBias []map[int32]float64
}

// NewState creates an empty state. Predict on it returns 0 for any input.
func NewState(params Params) *State {
	return &State{
		Params:     params,
		Users:      NewIndex(),
		Items:      NewIndex(),
		Timestamps: NewIndex(),
	}
}

// Predict estimates the rating of item by user at timestamp t.
// Unknown keys contribute zero; Predict never mutates the state.
func (s *State) Predict(userID, itemID, t string) float64 {
	if s == nil {
		return 0
	}
	return s.predict(s.Users.ToNumber(userID), s.Items.ToNumber(itemID), s.Timestamps.ToNumber(t))
}

func (s *State) predict(u, i, t int32) float64 {
	var bu, bi, but, bit, dot float64
	if u != NotId {
		bu = s.UserBias[u]
		if t != NotId {
			but = s.UserTimeBias[u][t]
		}
	}
	if i != NotId {
		bi = s.ItemBias[i]
		if t != NotId {
			bit = s.ItemTimeBias[i][t]
		}
	}
	if u != NotId && i != NotId {
		dot = floats.Dot(s.UserFactor[u], s.ItemFactor[i])
	}
	return s.GlobalMean + bu + bi + but + bit + dot
}

// PredictBatch predicts every row of table, in row order.
func (s *State) PredictBatch(table dataset.Table) []float64 {
	return parallel.Map(table, parallel.DefaultThreshold, func(r dataset.Rating) float64 {
		return s.Predict(r.UserID, r.ItemID, r.Timestamp)
	})
}

// Stats counts the entries of a state.
type Stats struct {
	Users             int `json:"users"`
	Items             int `json:"items"`
	Timestamps        int `json:"timestamps"`
	UserTimeBiasCount int `json:"user_time_biases"`
	ItemTimeBiasCount int `json:"item_time_biases"`
}

// Stats returns entry counts for the state.
func (s *State) Stats() Stats {
	st := Stats{
		Users:      int(s.Users.Len()),
		Items:      int(s.Items.Len()),
		Timestamps: int(s.Timestamps.Len()),
	}
	for _, m := range s.UserTimeBias {
		st.UserTimeBiasCount += len(m)
	}
	for _, m := range s.ItemTimeBias {
		st.ItemTimeBiasCount += len(m)
	}
	return st
}

// Validate checks the structural invariants of a state: consistent indexes
// and slice lengths, factor vectors of length NFactors, time-bias keys that
// refer to known timestamps, and finite values everywhere.
func (s *State) Validate() error {
	if err := s.Params.Validate(); err != nil {
		return err
	}
	if !errors.IsFinite(s.GlobalMean) {
		return errors.NewNumericalInstabilityError("State.Validate", []float64{s.GlobalMean}, 0)
	}
	for name, idx := range map[string]*Index{"users": s.Users, "items": s.Items, "timestamps": s.Timestamps} {
		if !idx.check() {
			return errors.Newf("%s index is inconsistent", name)
		}
	}
	nTimestamps := s.Timestamps.Len()
	check := func(kind string, n int32, factors [][]float64, bias []float64, timeBias []map[int32]float64) error {
		if len(factors) != int(n) || len(bias) != int(n) || len(timeBias) != int(n) {
			return errors.Newf("%s: index has %d entries but parameters have %d factors, %d biases, %d time-bias maps",
				kind, n, len(factors), len(bias), len(timeBias))
		}
		for id := range factors {
			if len(factors[id]) != s.Params.NFactors {
				return errors.Newf("%s %d: factor length %d, want %d", kind, id, len(factors[id]), s.Params.NFactors)
			}
			if err := errors.CheckFinite("State.Validate", factors[id], 0); err != nil {
				return err
			}
			for t, v := range timeBias[id] {
				if t < 0 || t >= nTimestamps {
					return errors.Newf("%s %d: time bias refers to unknown timestamp id %d", kind, id, t)
				}
				if err := errors.CheckScalar("State.Validate", v, 0); err != nil {
					return err
				}
			}
		}
		return errors.CheckFinite("State.Validate", bias, 0)
	}
	if err := check("user", s.Users.Len(), s.UserFactor, s.UserBias, s.UserTimeBias); err != nil {
		return err
	}
	return check("item", s.Items.Len(), s.ItemFactor, s.ItemBias, s.ItemTimeBias)
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{
		Params:       s.Params,
		GlobalMean:   s.GlobalMean,
		NSamples:     s.NSamples,
		Users:        s.Users.clone(),
		Items:        s.Items.clone(),
		Timestamps:   s.Timestamps.clone(),
		UserFactor:   cloneMatrix(s.UserFactor),
		ItemFactor:   cloneMatrix(s.ItemFactor),
		UserBias:     append([]float64(nil), s.UserBias...),
		ItemBias:     append([]float64(nil), s.ItemBias...),
		UserTimeBias: cloneTimeBias(s.UserTimeBias),
		ItemTimeBias: cloneTimeBias(s.ItemTimeBias),
	}
	return out
}

func cloneMatrix(m [][]float64) [][]float64 {
	if m == nil {
		return nil
	}
	out := make([][]float64, len(m))
	for i := range m {
		out[i] = append([]float64(nil), m[i]...)
	}
	return out
}

func cloneTimeBias(tb []map[int32]float64) []map[int32]float64 {
	if tb == nil {
		return nil
	}
	out := make([]map[int32]float64, len(tb))
	for i, m := range tb {
		out[i] = make(map[int32]float64, len(m))
		for k, v := range m {
			out[i][k] = v
		}
	}
	return out
}

// Summary describes the state for inspection.
func (s *State) Summary() model.ModelSummary {
	st := s.Stats()
	return model.ModelSummary{
		ModelType:       ModelType,
		Version:         SummaryVersion,
		GlobalMean:      s.GlobalMean,
		Hyperparameters: s.Params.asMap(),
		Counts: map[string]int{
			"users":            st.Users,
			"items":            st.Items,
			"timestamps":       st.Timestamps,
			"user_time_biases": st.UserTimeBiasCount,
			"item_time_biases": st.ItemTimeBiasCount,
			"samples":          s.NSamples,
		},
		IsFitted: st.Users > 0,
	}
}
