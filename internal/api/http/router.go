package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hrumbles/candidate-pipeline/internal/api/http/handlers"
	"github.com/hrumbles/candidate-pipeline/internal/auth"
	"github.com/hrumbles/candidate-pipeline/internal/domain"
	"github.com/hrumbles/candidate-pipeline/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Catalog        *handlers.CatalogHandler
	Candidates     *handlers.CandidatesHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireRole())
	api.Get("/statuses", cfg.Catalog.ListStatuses)
	api.Post("/classify", cfg.Catalog.Classify)

	candidates := api.Group("/candidates")
	candidates.Get("/:id/timeline", cfg.Candidates.Timeline)
	candidates.Post("/:id/status",
		auth.RequireRole(domain.RoleRecruiter, domain.RoleHiringLead, domain.RoleAdmin),
		cfg.Candidates.UpdateStatus)
	candidates.Post("/:id/bgv-status",
		auth.RequireRole(domain.RoleVerifier, domain.RoleAdmin),
		cfg.Candidates.UpdateBgvStatus)
}
