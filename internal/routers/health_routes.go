package routers

import (
	"mockinterview/api/internal/handlers"
	"mockinterview/api/internal/metrics"

	"github.com/go-chi/chi/v5"
)

func HealthRoutes(router *chi.Mux, healthHandler *handlers.HealthHandler) {
	router.Get("/", healthHandler.RootHandler)
	router.Get("/healthz", healthHandler.HealthzHandler)
	router.Get("/readyz", healthHandler.ReadyzHandler)
	router.Handle("/metrics", metrics.Handler())
}
