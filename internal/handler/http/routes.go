package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging, withGZip)

	router.Get("/healthz", h.healthz)
	router.Get("/status", h.status)
	router.Get("/version", h.version)

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
