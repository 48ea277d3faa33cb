package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/data-publish-agent/internal/adapter"
	"github.com/MKhiriev/data-publish-agent/models"
)

// PageValidationService rejects pages that would stall or rewind a cursor.
type PageValidationService struct {
	inner Fetcher
}

func NewPageValidationService() FetcherWrapper {
	return &PageValidationService{}
}

func (v *PageValidationService) Fetch(ctx context.Context, collection models.Collection, scope models.Scope, cursor models.SyncCursor) (models.Page, error) {
	page, err := v.inner.Fetch(ctx, collection, scope, cursor)
	if err != nil {
		return models.Page{}, err
	}

	if err = validatePage(page); err != nil {
		return models.Page{}, fmt.Errorf("error during page validation: %w", err)
	}

	return page, nil
}

func (v *PageValidationService) Wrap(wrapper Fetcher) Fetcher {
	v.inner = wrapper
	return v
}

func validatePage(page models.Page) error {
	// the offset would not move and the same page would be fetched forever
	if page.MoreUpdates && page.Received() == 0 {
		return fmt.Errorf("%w: %w: more updates announced without items", adapter.ErrFetch, ErrMalformedPage)
	}
	if page.FinalVersion < 0 {
		return fmt.Errorf("%w: %w: negative final version %d", adapter.ErrFetch, ErrMalformedPage, page.FinalVersion)
	}
	for i, item := range page.Items {
		if item.Key == "" {
			return fmt.Errorf("%w: %w: item %d has no key", adapter.ErrFetch, ErrMalformedPage, i)
		}
	}
	return nil
}
