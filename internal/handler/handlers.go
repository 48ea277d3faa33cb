package handler

import (
	"github.com/MKhiriev/data-publish-agent/internal/config"
	"github.com/MKhiriev/data-publish-agent/internal/handler/http"
	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/models"
)

type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers creates the status handlers. It fails when no status address
// is configured.
func NewHandlers(reports http.ReportSource, buildInfo models.AppBuildInfo, cfg config.AgentServer, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Address == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(reports, buildInfo, logger)}, nil
}
