package converter

import (
	"context"
	"time"

	"github.com/auxshare/auxd/internal/platforms"
	"github.com/charmbracelet/log"
	"github.com/sethvargo/go-retry"
)

// Playlist fetch retry defaults: fixed-delay, transient-only.
const (
	DefaultFetchAttempts = 3
	DefaultFetchDelay    = 2 * time.Second
)

// RetryPolicy is a fixed-attempt, fixed-delay retry loop for catalog
// I/O. Only transient [platforms.FetchError]s are retried; permanent
// and unsupported failures surface immediately.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy returns the playlist-fetch retry policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: DefaultFetchAttempts, Delay: DefaultFetchDelay}
}

// Do runs fn under the policy, logging each retried attempt. The
// returned attempt count includes the final (successful or not) try.
func (p RetryPolicy) Do(ctx context.Context, logger *log.Logger, op string, fn func(context.Context) error) (int, error) {
	attempts := 0
	backoff := retry.WithMaxRetries(uint64(p.MaxAttempts-1), retry.NewConstant(p.Delay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if platforms.IsTransient(err) && attempts < p.MaxAttempts {
			logger.Warn("transient failure, retrying", "op", op, "attempt", attempts, "max", p.MaxAttempts, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})

	return attempts, err
}
