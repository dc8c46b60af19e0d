package usecases

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"gatehouse/internal/shared/errors"
)

const (
	storageRetryAttempts = 2
	storageRetryBase     = 100 * time.Millisecond
)

// withStorageRetry runs fn with bounded exponential backoff. Transient
// storage failures are retried; business errors and duplicate-key
// violations are returned immediately so callers can react to them.
func withStorageRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(storageRetryAttempts, retry.NewExponential(storageRetryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !isRetryableStorageError(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}

func isRetryableStorageError(err error) bool {
	if errors.IsDuplicateError(err) {
		return false
	}
	if appErr := errors.GetAppError(err); appErr != nil {
		// Only outages are worth retrying; validation, conflict and
		// not-found outcomes are stable.
		return appErr.Type == errors.ErrorTypeUnavailable
	}
	return true
}
