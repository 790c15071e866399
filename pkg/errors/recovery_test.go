package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		panic("test panic message")
	}

	err := testFunc()
	require.Error(t, err)

	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "TestOperation", panicErr.Operation)
	assert.Equal(t, "test panic message", panicErr.PanicValue)
	assert.NotEmpty(t, panicErr.StackTrace)
	assert.Equal(t, "panic in TestOperation: test panic message", panicErr.Error())
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		return nil
	}

	assert.NoError(t, testFunc())
}

func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("original error")

	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		err = originalErr
		panic("panic after error")
	}

	err := testFunc()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in TestOperation")
	assert.Contains(t, err.Error(), "original error")
	assert.True(t, errors.Is(err, originalErr))
}

func TestSafeCall(t *testing.T) {
	v, err := SafeCall("price", func() (float64, error) { return 1.5, nil })
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	v, err = SafeCall("price", func() (float64, error) {
		var m map[string][]float64
		return m["missing"][3], nil
	})
	assert.Zero(t, v)
	var panicErr *PanicError
	require.True(t, errors.As(err, &panicErr))
	assert.Equal(t, "price", panicErr.Operation)
}

func TestPanicError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("error as panic")
	panicErr := NewPanicError("TestOp", cause)
	assert.Same(t, cause, panicErr.Unwrap())

	plain := NewPanicError("TestOp", "test value")
	assert.Nil(t, plain.Unwrap())
	assert.True(t, strings.Contains(plain.String(), "Stack trace:"))
}

func TestRecover_DifferentPanicTypes(t *testing.T) {
	testCases := []struct {
		name          string
		panicValue    interface{}
		expectedValue interface{}
	}{
		{"string panic", "string panic", "string panic"},
		{"int panic", 42, 42},
		{"error panic", fmt.Errorf("error as panic"), fmt.Errorf("error as panic")},
		{"struct panic", struct{ Msg string }{"struct message"}, struct{ Msg string }{"struct message"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			testFunc := func() (err error) {
				defer Recover(&err, "TypeTest")
				panic(tc.panicValue)
			}

			var panicErr *PanicError
			require.True(t, errors.As(testFunc(), &panicErr))
			assert.Equal(t, fmt.Sprintf("%v", tc.expectedValue), fmt.Sprintf("%v", panicErr.PanicValue))
		})
	}
}

func BenchmarkSafeCall_NoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = SafeCall("BenchmarkOp", func() (float64, error) {
			return 1, nil
		})
	}
}
