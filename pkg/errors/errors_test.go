package errors

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDataError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		row     int
		field   string
		reason  string
		wantMsg string
	}{
		{
			name:    "whole table",
			op:      "Validate",
			row:     -1,
			reason:  "empty table",
			wantMsg: "pricefactor: Validate: empty table",
		},
		{
			name:    "missing column",
			op:      "LoadCSV",
			row:     -1,
			field:   "rating",
			reason:  "missing required column",
			wantMsg: "pricefactor: LoadCSV: field 'rating': missing required column",
		},
		{
			name:    "bad row",
			op:      "Validate",
			row:     3,
			field:   "rating",
			reason:  "non-numeric rating",
			wantMsg: "pricefactor: Validate: row 3: field 'rating': non-numeric rating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDataError(tt.op, tt.row, tt.field, tt.reason)
			assert.Equal(t, tt.wantMsg, err.Error())

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			assert.True(t, strings.Contains(formatted, "errors_test.go"))

			var dataErr *DataError
			require.True(t, As(err, &dataErr))
			assert.Equal(t, tt.row, dataErr.Row)
		})
	}
}

func TestSerializationError(t *testing.T) {
	cause := fmt.Errorf("unexpected EOF")
	err := NewSerializationError("LoadState", cause)

	assert.Equal(t, "pricefactor: LoadState: serialization failed: unexpected EOF", err.Error())
	assert.True(t, Is(err, cause))

	var serErr *SerializationError
	require.True(t, As(err, &serErr))
	assert.Equal(t, "LoadState", serErr.Op)
}

func TestOrchestrationError(t *testing.T) {
	err := NewOrchestrationError("CalculatePrice", "u1", "p1", ErrNilPredictor)

	assert.Equal(t, "pricefactor: CalculatePrice: user 'u1', item 'p1': nil predictor", err.Error())
	assert.True(t, Is(err, ErrNilPredictor))

	var orchErr *OrchestrationError
	require.True(t, As(err, &orchErr))
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("learning_rate", "must be positive", -0.5)
	assert.Equal(t, "pricefactor: validation failed for parameter 'learning_rate': must be positive (got: -0.5)", err.Error())

	var valErr *ValidationError
	require.True(t, As(err, &valErr))
}

func TestCheckScalar(t *testing.T) {
	assert.NoError(t, CheckScalar("sgd_epoch", 1.25, 1))

	err := CheckScalar("sgd_epoch", math.NaN(), 7)
	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Equal(t, 7, numErr.Iteration)
	assert.Contains(t, err.Error(), "sgd_epoch at iteration 7")

	assert.Error(t, CheckFinite("state", []float64{0, 1, math.Inf(-1)}, 0))
	assert.False(t, IsFinite(math.Inf(1)))
}

func TestMarshalZerologObject(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	dataErr := &DataError{Op: "Validate", Row: 2, Field: "user_id", Reason: "missing required field"}
	logger.Error().Object("detail", dataErr).Msg("bad table")

	out := buf.String()
	assert.Contains(t, out, `"type":"DataError"`)
	assert.Contains(t, out, `"row":2`)
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s", "Fit")

	assert.True(t, Is(wrapped, ErrEmptyData))
	assert.Contains(t, wrapped.Error(), "in Fit")
}

func TestEmptyDataErrorMatchesSentinel(t *testing.T) {
	err := NewEmptyDataError("Validate")

	var dataErr *DataError
	require.True(t, As(err, &dataErr))
	assert.Equal(t, -1, dataErr.Row)
	assert.True(t, Is(err, ErrEmptyData))
	assert.Equal(t, "pricefactor: Validate: empty training table", err.Error())

	assert.False(t, Is(NewDataError("Validate", 0, "user_id", "missing required field"), ErrEmptyData))
}
