package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dom/dota-draft-assistant/internal/api/handlers"
	"github.com/dom/dota-draft-assistant/internal/api/middleware"
	"github.com/dom/dota-draft-assistant/internal/config"
	"github.com/dom/dota-draft-assistant/internal/logging"
	"github.com/dom/dota-draft-assistant/internal/service"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(logging.RequestLogger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	recommendHandler := handlers.NewRecommendHandler(services.Recommend)
	buildHandler := handlers.NewBuildHandler(services.Builds)
	heroHandler := handlers.NewHeroHandler(services.Catalog)

	r.Route("/api", func(r chi.Router) {
		r.Get("/heroes", heroHandler.List)

		r.With(middleware.RateLimitByIP(cfg.Server.RateLimitRequests, cfg.Server.RateLimitWindow)).
			Post("/recommend", recommendHandler.Recommend)
	})

	r.Route("/builds", func(r chi.Router) {
		r.Post("/options", buildHandler.Options)
		r.Post("/detailed", buildHandler.Detailed)
	})

	return r
}
