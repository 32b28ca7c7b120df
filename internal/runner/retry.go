// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"

	"github.com/cenkalti/backoff/v4"

	"github.com/invowk/ctrkit/internal/container"
)

// withRetry runs op once, or up to r.attempts times with exponential backoff
// when inv is retryable and op keeps failing with transient errors. Stdin
// cannot be replayed, so invocations carrying it run once.
func (r *Runner) withRetry(ctx context.Context, inv container.Invocation, op func() error) error {
	if !inv.Retryable || inv.Stdin != nil || r.attempts <= 1 {
		return op()
	}

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !IsTransientError(err) {
			return backoff.Permanent(err)
		}
		r.logger.DebugContext(ctx, "transient engine error",
			"command", inv.Command,
			"attempt", attempt,
			"error", err)
		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(r.policy(), ctx))
}

func (r *Runner) policy() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.initialBackoff
	exp.Multiplier = 2
	exp.RandomizationFactor = 0.2
	exp.MaxInterval = 10 * r.initialBackoff
	exp.MaxElapsedTime = 0
	return backoff.WithMaxRetries(exp, uint64(r.attempts-1))
}
