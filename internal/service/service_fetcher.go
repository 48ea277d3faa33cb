package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/data-publish-agent/internal/adapter"
	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/models"
)

const maxRetryWait = 30 * time.Second

type fetcher struct {
	adapter adapter.DataPublishAdapter
	auth    AuthService

	retryMax  uint64
	retryWait time.Duration

	logger *logger.Logger
}

// NewFetcher returns a Fetcher that authorises requests through auth.
func NewFetcher(dataAdapter adapter.DataPublishAdapter, auth AuthService, cfg config.AgentSync, logger *logger.Logger) Fetcher {
	return &fetcher{
		adapter:   dataAdapter,
		auth:      auth,
		retryMax:  uint64(max(cfg.RetryMax, 0)),
		retryWait: cfg.RetryWait,
		logger:    logger,
	}
}

func (f *fetcher) Fetch(ctx context.Context, collection models.Collection, scope models.Scope, cursor models.SyncCursor) (models.Page, error) {
	token, err := f.auth.Token(ctx)
	if err != nil {
		return models.Page{}, sessionExpired(ctx, err)
	}

	page, err := f.fetchWithRetry(ctx, collection, scope, cursor, token)
	if !errors.Is(err, adapter.ErrAuthExpired) {
		return page, err
	}

	logger.FromContext(ctx).Info().
		Str("collection", collection.Name).
		Str("scope", scope.String()).
		Str("cursor", cursor.String()).
		Msg("token rejected, renewing session")

	token, err = f.auth.Refresh(ctx, token)
	if err != nil {
		return models.Page{}, sessionExpired(ctx, err)
	}

	page, err = f.fetchWithRetry(ctx, collection, scope, cursor, token)
	if errors.Is(err, adapter.ErrAuthExpired) {
		return models.Page{}, fmt.Errorf("%w: token rejected after renewal: %w", ErrSessionExpired, err)
	}
	return page, err
}

// fetchWithRetry retries transport failures with exponential backoff. Any
// other error is returned at once.
func (f *fetcher) fetchWithRetry(ctx context.Context, collection models.Collection, scope models.Scope, cursor models.SyncCursor, token string) (models.Page, error) {
	if f.retryMax == 0 || f.retryWait <= 0 {
		return f.adapter.FetchPage(ctx, collection, scope, cursor, token)
	}

	log := logger.FromContext(ctx)
	backoff := retry.WithMaxRetries(f.retryMax, retry.WithCappedDuration(maxRetryWait, retry.NewExponential(f.retryWait)))

	attempt := 0
	return retry.DoValue(ctx, backoff, func(ctx context.Context) (models.Page, error) {
		attempt++
		page, err := f.adapter.FetchPage(ctx, collection, scope, cursor, token)
		if err == nil {
			return page, nil
		}

		if errors.Is(err, adapter.ErrTransport) {
			log.Warn().Err(err).
				Str("collection", collection.Name).
				Str("scope", scope.String()).
				Int("attempt", attempt).
				Msg("transport failure, retrying")
			return models.Page{}, retry.RetryableError(err)
		}

		return models.Page{}, err
	})
}

// sessionExpired marks err as fatal for the run unless the run itself was
// cancelled.
func sessionExpired(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, ErrSessionExpired) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrSessionExpired, err)
}
