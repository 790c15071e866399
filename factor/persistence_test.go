package factor

import (
	"bytes"
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/pricefactor/dataset"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
)

func probeSet() dataset.Table {
	probes := purchaseTable()
	return append(probes,
		dataset.Rating{UserID: "user1", ItemID: "prod1", Timestamp: "2031-01-01"},
		dataset.Rating{UserID: "stranger", ItemID: "prod2", Timestamp: "2023-01-03"},
		dataset.Rating{UserID: "user2", ItemID: "new-product", Timestamp: "2023-01-02"},
		dataset.Rating{UserID: "stranger", ItemID: "new-product", Timestamp: "never"},
	)
}

func TestRoundTrip(t *testing.T) {
	m := fitModel(t, purchaseTable(), WithNFactors(3), WithEpochs(20), WithSeed(5))

	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))

	loaded, err := LoadState(&buf)
	require.NoError(t, err)
	assert.Equal(t, m.State().Params, loaded.Params)
	assert.Equal(t, m.State().Stats(), loaded.Stats())

	for _, p := range probeSet() {
		want := m.Predict(p.UserID, p.ItemID, p.Timestamp)
		got := loaded.Predict(p.UserID, p.ItemID, p.Timestamp)
		assert.Equal(t, math.Float64bits(want), math.Float64bits(got), "probe %+v", p)
	}
}

func TestRoundTripFile(t *testing.T) {
	m := fitModel(t, purchaseTable(), WithNFactors(2), WithEpochs(5))
	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, m.SaveFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)

	served := NewModel()
	require.NoError(t, served.Load(loaded))
	assert.True(t, served.IsFitted())
	assert.Equal(t, m.Params(), served.Params())
	for _, p := range probeSet() {
		assert.Equal(t, m.Predict(p.UserID, p.ItemID, p.Timestamp), served.Predict(p.UserID, p.ItemID, p.Timestamp))
	}
}

func TestSaveUnfitted(t *testing.T) {
	var buf bytes.Buffer
	err := NewModel().Save(&buf)
	assert.True(t, errors.Is(err, errors.ErrNotFitted))
	assert.Zero(t, buf.Len())
}

func TestLoadStateCorrupt(t *testing.T) {
	m := fitModel(t, purchaseTable(), WithNFactors(2), WithEpochs(5))
	var buf bytes.Buffer
	require.NoError(t, m.Save(&buf))
	blob := buf.Bytes()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not a model")},
		{"truncated", blob[:len(blob)/2]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, err := LoadState(bytes.NewReader(tt.data))
			assert.Nil(t, state)
			var serErr *errors.SerializationError
			assert.True(t, errors.As(err, &serErr), "got %v", err)
		})
	}
}

func TestLoadStateRejectsBrokenInvariants(t *testing.T) {
	m := fitModel(t, purchaseTable(), WithNFactors(2), WithEpochs(5))

	tests := []struct {
		name   string
		mutate func(s *State)
	}{
		{"short factor", func(s *State) { s.UserFactor[0] = s.UserFactor[0][:1] }},
		{"missing bias", func(s *State) { s.ItemBias = s.ItemBias[:1] }},
		{"nan bias", func(s *State) { s.UserBias[1] = math.NaN() }},
		{"unknown timestamp", func(s *State) { s.ItemTimeBias[0][99] = 0.1 }},
		{"bad params", func(s *State) { s.Params.NFactors = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			broken := m.State().Clone()
			tt.mutate(broken)

			var buf bytes.Buffer
			require.NoError(t, broken.Save(&buf))

			state, err := LoadState(&buf)
			assert.Nil(t, state)
			var serErr *errors.SerializationError
			require.True(t, errors.As(err, &serErr), "got %v", err)

			err = NewModel().Load(broken)
			assert.True(t, errors.As(err, &serErr))
		})
	}
}

func TestTrainReturnsFrozenState(t *testing.T) {
	state, err := Train(context.Background(), purchaseTable(), Params{
		NFactors: 2, LearningRate: 0.05, Regularization: 0.02, Epochs: 10, Seed: 1,
	})
	require.NoError(t, err)
	require.NoError(t, state.Validate())

	_, err = Train(context.Background(), nil, DefaultParams())
	var dataErr *errors.DataError
	assert.True(t, errors.As(err, &dataErr))
}
