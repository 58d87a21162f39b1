// Package lockout throttles repeated failed logins per account.
package lockout

import (
	"context"
	"strings"
	"time"

	dErrors "taxfill/pkg/domain-errors"
)

// Counter counts failures per key within a rolling window. The count expires
// on its own after the window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
	Get(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// Tracker applies the lockout policy on top of a Counter.
type Tracker struct {
	counter     Counter
	maxFailures int64
	window      time.Duration
}

// New constructs a tracker that locks an account after maxFailures failed
// attempts within the window.
func New(counter Counter, maxFailures int64, window time.Duration) *Tracker {
	return &Tracker{counter: counter, maxFailures: maxFailures, window: window}
}

// Check returns a too_many_requests error when the account is locked.
func (t *Tracker) Check(ctx context.Context, email string) error {
	count, err := t.counter.Get(ctx, key(email))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read lockout state")
	}
	if count >= t.maxFailures {
		return dErrors.New(dErrors.CodeTooManyRequests,
			"too many failed login attempts, try again later")
	}
	return nil
}

// RecordFailure counts one failed attempt and reports whether the account is
// now locked.
func (t *Tracker) RecordFailure(ctx context.Context, email string) (bool, error) {
	count, err := t.counter.Incr(ctx, key(email), t.window)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record login failure")
	}
	return count >= t.maxFailures, nil
}

// Clear forgets the failure history after a successful login.
func (t *Tracker) Clear(ctx context.Context, email string) error {
	if err := t.counter.Reset(ctx, key(email)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear lockout state")
	}
	return nil
}

func key(email string) string {
	return "lockout:login:" + strings.ToLower(email)
}
