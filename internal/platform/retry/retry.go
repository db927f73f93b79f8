package retry

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/general_ledger/internal/apperrors"
	"github.com/SscSPs/general_ledger/internal/platform/logging"
	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxElapsed bounds the total time spent retrying one job.
const DefaultMaxElapsed = 30 * time.Second

// OnStorageUnavailable runs op, retrying with exponential backoff only while it fails
// with a StorageUnavailable error. Any other error is returned immediately.
func OnStorageUnavailable(ctx context.Context, maxElapsed time.Duration, op func(ctx context.Context) error) error {
	if maxElapsed <= 0 {
		maxElapsed = DefaultMaxElapsed
	}
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 100 * time.Millisecond
	expo.MaxElapsedTime = maxElapsed

	logger := logging.FromContext(ctx)
	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !apperrors.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(expo, ctx), func(err error, wait time.Duration) {
		logger.Warn("Storage unavailable, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	})
}
