package http

import (
	"time"

	"github.com/MKhiriev/data-publish-agent/internal/logger"
	"github.com/MKhiriev/data-publish-agent/models"
)

// ReportSource provides the report of the latest sync run.
type ReportSource interface {
	LastReport() (models.SyncReport, bool)
}

type Handler struct {
	reports   ReportSource
	buildInfo models.AppBuildInfo
	startedAt time.Time

	logger *logger.Logger
}

func NewHandler(reports ReportSource, buildInfo models.AppBuildInfo, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		reports:   reports,
		buildInfo: buildInfo,
		startedAt: time.Now(),
		logger:    logger,
	}
}
