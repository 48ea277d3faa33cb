package store

import (
	"context"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/data-publish-agent/internal/logger"
)

// withRetry runs op and repeats it with exponential backoff while the
// classifier reports the failure as [Retryable].
func (db *DB) withRetry(ctx context.Context, name string, op func(ctx context.Context) error) error {
	if db.errorClassificator == nil || db.retryMax == 0 || db.retryBase <= 0 {
		return op(ctx)
	}

	log := logger.FromContext(ctx)
	backoff := retry.WithMaxRetries(db.retryMax, retry.NewExponential(db.retryBase))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}

		if db.errorClassificator.Classify(err) == Retryable {
			log.Warn().Err(err).
				Str("func", name).
				Int("attempt", attempt).
				Msg("transient database error, retrying")
			return retry.RetryableError(err)
		}

		return err
	})
}
