// Package poll retries an operation until it succeeds, fails with an error
// that is not declared transient, or a deadline passes.
package poll

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// Defaults used when a Policy leaves Interval or MaxWait unset.
const (
	DefaultInterval = 500 * time.Millisecond
	DefaultMaxWait  = 10 * time.Second
)

// Policy configures Do.
type Policy struct {
	// Interval is the pause between attempts. Defaults to DefaultInterval.
	Interval time.Duration

	// MaxWait bounds the total time spent retrying. Defaults to DefaultMaxWait.
	MaxWait time.Duration

	// Transient reports whether err is worth another attempt. A nil
	// Transient retries every error.
	Transient func(err error) bool
}

// Kinds returns a Transient predicate matching any error that wraps one of
// kinds according to errors.Is.
func Kinds(kinds ...error) func(error) bool {
	return func(err error) bool {
		for _, k := range kinds {
			if errors.Is(err, k) {
				return true
			}
		}
		return false
	}
}

// Do calls fn until it returns nil. Errors accepted by p.Transient are retried
// every p.Interval; once p.MaxWait has elapsed the last such error is returned
// unchanged. Any other error is returned immediately, as is ctx.Err() if ctx
// ends first.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	maxWait := p.MaxWait
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	transient := p.Transient
	if transient == nil {
		transient = func(error) bool { return true }
	}

	backoff := retry.WithMaxDuration(maxWait, retry.NewConstant(interval))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && transient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
