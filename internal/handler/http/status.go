package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/data-publish-agent/internal/utils"
	"github.com/MKhiriev/data-publish-agent/models"
)

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

type statusResponse struct {
	Report models.SyncReport `json:"report"`
	Items  int               `json:"items"`
	Failed int               `json:"failed"`
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, healthResponse{
		Status: "ok",
		Uptime: time.Since(h.startedAt).Round(time.Second).String(),
	}, http.StatusOK)
}

// status returns the report of the latest sync run, or 404 before the
// first run finished.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	report, ok := h.reports.LastReport()
	if !ok {
		utils.WriteError(w, ErrNoReport.Error(), http.StatusNotFound)
		return
	}

	utils.WriteJSON(w, statusResponse{
		Report: report,
		Items:  report.Items(),
		Failed: len(report.Failed()),
	}, http.StatusOK)
}
