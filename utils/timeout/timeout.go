// Package timeout bounds how long a caller waits on an operation.
//
// The wrapped operation receives a context carrying the deadline, but an operation
// that ignores it keeps running after Run has returned; only the caller stops waiting.
package timeout

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

var ErrTimeout = errors.New("operation timed out")

// Error names the operation that exceeded its deadline.
type Error struct {
	Label   string
	Timeout time.Duration
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Label, e.Timeout)
}

func (e *Error) Unwrap() error {
	return ErrTimeout
}

// Run calls fn and returns its result, or a labeled *Error once d has elapsed.
// A zero or negative d disables the timeout.
func Run[T any](ctx context.Context, d time.Duration, label string, fn func(context.Context) (T, error)) (T, error) {
	if d <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		if ctx.Err() == context.DeadlineExceeded {
			return zero, &Error{Label: label, Timeout: d}
		}
		return zero, ctx.Err()
	}
}
