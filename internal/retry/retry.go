// Package retry runs an operation a bounded number of times with linear
// backoff: the wait before retry i (zero based) is Interval × (i+1).
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrContextCanceled = errors.New("context canceled during retry")

const DefaultInterval = time.Second

type Config struct {
	// MaxRetries is the number of retries after the first attempt. 0 runs the
	// operation once.
	MaxRetries int
	// Interval is the backoff unit. Attempt i waits Interval × (i+1).
	Interval time.Duration
}

type Operation func(ctx context.Context) error

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// PermanentError stops the retry loop immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err, or anything it wraps, was marked permanent.
func IsPermanent(err error) bool {
	var perm *PermanentError
	return errors.As(err, &perm)
}

type Result struct {
	// Err is the final error with any permanent marker removed, nil on success.
	Err error
	// Attempts counts every call to the operation, the first one included.
	Attempts int
}

// Callback runs before each backoff wait.
type Callback func(attempt int, err error, wait time.Duration)

type Retrier struct {
	config Config
	sleep  SleepFunc
}

type Option func(*Retrier)

// WithSleep replaces the timer based wait, for tests.
func WithSleep(sleep SleepFunc) Option {
	return func(r *Retrier) { r.sleep = sleep }
}

func New(config Config, opts ...Option) *Retrier {
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}

	r := &Retrier{config: config, sleep: Sleep}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Backoff returns the wait before retry number attempt (zero based).
func (r *Retrier) Backoff(attempt int) time.Duration {
	return r.config.Interval * time.Duration(attempt+1)
}

func (r *Retrier) Do(ctx context.Context, op Operation) Result {
	return r.DoWithCallback(ctx, op, nil)
}

func (r *Retrier) DoWithCallback(ctx context.Context, op Operation, callback Callback) Result {
	var result Result

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			result.Err = canceled(err, result.Err)
			return result
		}

		result.Attempts++
		err := op(ctx)
		if err == nil {
			result.Err = nil
			return result
		}

		var perm *PermanentError
		if errors.As(err, &perm) {
			result.Err = perm.Err
			return result
		}
		result.Err = err

		if attempt >= r.config.MaxRetries {
			return result
		}

		wait := r.Backoff(attempt)
		if callback != nil {
			callback(attempt+1, err, wait)
		}

		if err := r.sleep(ctx, wait); err != nil {
			result.Err = canceled(err, result.Err)
			return result
		}
	}
}

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func canceled(cause, last error) error {
	if last == nil {
		return fmt.Errorf("%w: %w", ErrContextCanceled, cause)
	}
	return fmt.Errorf("%w: %w: %w", ErrContextCanceled, cause, last)
}
