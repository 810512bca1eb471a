package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vistaluz/catalog-search/internal/service"
	"github.com/vistaluz/catalog-search/pkg/health"
	"github.com/vistaluz/catalog-search/pkg/middleware"
)

// NewRouter creates a chi router with all search service routes registered.
func NewRouter(
	searchService *service.SearchService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing("catalog-search"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("search"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	searchHandler := NewSearchHandler(searchService, logger)

	r.Route("/api/v1/search", func(r chi.Router) {
		// Results only change when a snapshot lands, so short client-side
		// caching is safe.
		r.Use(middleware.CacheControl(30))
		r.Get("/", searchHandler.Search)
		r.Get("/categories", searchHandler.Categories)
	})

	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/stats", searchHandler.Stats)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/snapshot", searchHandler.PublishSnapshot)
			r.Post("/reindex", searchHandler.Reindex)
		})
	})

	return r
}
