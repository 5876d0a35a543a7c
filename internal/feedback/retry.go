package feedback

import (
	"errors"
	"time"

	"github.com/feedbacklab/feedback-ai-bridge/internal/ai"
)

// retryPolicy runs an operation up to maxAttempts times with a fixed
// backoff between failed attempts. Attempts are strictly sequential.
// ai.ErrNotConfigured is never retried: the credential will not appear
// between attempts, so the loop aborts immediately with no backoff.
type retryPolicy struct {
	maxAttempts int
	backoff     time.Duration

	// sleep is replaceable so tests can assert the backoff schedule
	// without waiting. Nil means time.Sleep.
	sleep func(time.Duration)
}

// run invokes op until it succeeds or the attempt budget is spent.
// No backoff after the final attempt. Returns nil on success, the last
// error on exhaustion, or ai.ErrNotConfigured unretried.
func (p retryPolicy) run(op func(attempt int) error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		err := op(attempt)
		if err == nil {
			return nil
		}
		if errors.Is(err, ai.ErrNotConfigured) {
			return err
		}
		lastErr = err
		if attempt < p.maxAttempts {
			sleep(p.backoff)
		}
	}
	return lastErr
}

// withAttempts returns a copy budgeted to n attempts. Used by the
// single-attempt diagnostic probe.
func (p retryPolicy) withAttempts(n int) retryPolicy {
	p.maxAttempts = n
	return p
}
