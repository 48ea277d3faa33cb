package service

import (
	"github.com/MKhiriev/data-publish-agent/internal/adapter"
	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/internal/store"
)

type Services struct {
	AuthService AuthService
	SyncDriver  SyncDriver
}

// NewServices wires the sync services. The fetcher rejects malformed pages
// before they reach the driver.
func NewServices(authAdapter adapter.AuthAdapter, dataAdapter adapter.DataPublishAdapter, storages *store.Storages, cfg config.AgentSync, logger *logger.Logger) (*Services, error) {
	authSvc := NewAuthService(authAdapter, cfg, logger)
	fetcher := NewPageValidationService().Wrap(NewFetcher(dataAdapter, authSvc, cfg, logger))

	driver, err := NewSyncDriver(fetcher, storages.CursorRepository, storages.EntityRepository, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService: authSvc,
		SyncDriver:  driver,
	}, nil
}
