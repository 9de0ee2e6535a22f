// Package retry provides a tiered-timeout attempt policy for upstream calls.
//
// Instead of retrying with backoff, each attempt gets its own deadline from
// an ordered tier list (e.g. 10s then 20s). An attempt that times out
// escalates to the next, more patient tier; any other failure is terminal.
package retry

import (
	"context"
	"errors"
	"time"
)

// PermanentError wraps an error that must not escalate to the next tier.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so that Tiered will not escalate it.
func Permanent(err error) error {
	return &PermanentError{Err: err}
}

// AttemptFunc performs one attempt within the deadline of its context.
type AttemptFunc func(ctx context.Context) error

// Tiered calls fn once per timeout tier, in order. It stops early if:
//   - fn returns nil (success)
//   - fn returns a *PermanentError (unwrapped and returned)
//   - fn fails with anything other than its attempt deadline expiring
//   - the parent ctx is cancelled
//
// Only a per-attempt timeout advances to the next tier. A timeout on the
// final tier returns that timeout error; errors.Is(err,
// context.DeadlineExceeded) distinguishes it from other transport failures.
func Tiered(ctx context.Context, tiers []time.Duration, fn AttemptFunc) error {
	if len(tiers) == 0 {
		return fn(ctx)
	}

	var err error
	for _, tier := range tiers {
		attemptCtx, cancel := context.WithTimeout(ctx, tier)
		err = fn(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}

		var pe *PermanentError
		if errors.As(err, &pe) {
			return pe.Err
		}

		// Parent cancellation also surfaces as DeadlineExceeded/Canceled
		// on the attempt context; don't mistake it for a tier timeout.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	return err
}
