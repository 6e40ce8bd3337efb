package capture

import (
	"context"
	"time"
)

// Retry controls how RPC calls are repeated after a failure.
type Retry struct {
	MaxRetries int
	Backoff    time.Duration
}

func (r Retry) normalized() Retry {
	if r.MaxRetries < 0 {
		r.MaxRetries = 0
	}
	if r.Backoff <= 0 {
		r.Backoff = 100 * time.Millisecond
	}
	return r
}

// call runs fn until it succeeds or the retries are spent, doubling the
// delay each time. onErr sees every failed attempt.
func call[T any](ctx context.Context, policy Retry, onErr func(attempt int, err error), fn func(context.Context) (T, error)) (T, error) {
	policy = policy.normalized()

	delay := policy.Backoff
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if onErr != nil {
			onErr(attempt, err)
		}
		if attempt >= policy.MaxRetries {
			var zero T
			return zero, err
		}

		if err := sleep(ctx, delay); err != nil {
			var zero T
			return zero, err
		}
		delay *= 2
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
