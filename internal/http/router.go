package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"legisync/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	DB          handlers.Pinger
	Store       handlers.StatusStore
	Ingester    handlers.Ingester // nil disables POST /api/ingest
	ArchivesDir string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.DB))
		r.Method(http.MethodGet, "/status", handlers.NewStatusHandler(deps.Store, deps.Ingester))
		if deps.Ingester != nil {
			r.Method(http.MethodPost, "/ingest", handlers.NewIngestHandler(deps.Ingester, deps.ArchivesDir))
		}
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
