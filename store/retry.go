package store

import (
	"context"
	"io/fs"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/YuminosukeSato/pricefactor/factor"
	"github.com/YuminosukeSato/pricefactor/pkg/errors"
	"github.com/YuminosukeSato/pricefactor/pkg/log"
)

type retryOptions struct {
	maxTries uint
	backOff  backoff.BackOff
	logger   log.Logger
}

// RetryOption configures LoadWithRetry.
type RetryOption func(*retryOptions)

// WithMaxTries bounds the number of load attempts.
func WithMaxTries(n uint) RetryOption {
	return func(o *retryOptions) {
		o.maxTries = n
	}
}

// WithBackOff replaces the exponential back-off between attempts.
func WithBackOff(b backoff.BackOff) RetryOption {
	return func(o *retryOptions) {
		o.backOff = b
	}
}

// WithRetryLogger logs every failed attempt at warn level.
func WithRetryLogger(logger log.Logger) RetryOption {
	return func(o *retryOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// LoadWithRetry loads the model from s, retrying transient failures such as a
// missing blob or a network error. A blob that is present but cannot be
// decoded is returned immediately as a *errors.SerializationError.
func LoadWithRetry(ctx context.Context, s Store, opts ...RetryOption) (*factor.State, error) {
	o := retryOptions{
		maxTries: 5,
		backOff:  backoff.NewExponentialBackOff(),
		logger:   log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	attempt := 0
	operation := func() (*factor.State, error) {
		attempt++
		state, err := s.Load(ctx)
		if err == nil {
			return state, nil
		}
		var serErr *errors.SerializationError
		if errors.As(err, &serErr) && !errors.Is(err, fs.ErrNotExist) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	notify := func(err error, next time.Duration) {
		o.logger.Warn("Model load failed, retrying", err,
			log.OperationKey, log.OperationLoad,
			"store.location", s.Location(),
			"retry.attempt", attempt,
			"retry.next_ms", next.Milliseconds(),
		)
	}

	state, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(o.backOff),
		backoff.WithMaxTries(o.maxTries),
		backoff.WithNotify(notify),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "load model from %s after %d attempt(s)", s.Location(), attempt)
	}
	return state, nil
}
