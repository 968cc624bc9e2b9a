package rest

import (
	"net/http"

	"tastebase-backend/application/services"
	"tastebase-backend/infrastructure/config"
	"tastebase-backend/interfaces/http/rest/handlers"
	"tastebase-backend/interfaces/http/rest/middleware"
	"tastebase-backend/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	service *services.RevalidationService
	cfg     *config.Config
	logger  *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	service *services.RevalidationService,
	cfg *config.Config,
	logger *zap.Logger,
) *Router {
	return &Router{
		service: service,
		cfg:     cfg,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.tastebase.com"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// Revalidation endpoints. Auth is per-request shared secrets checked in
	// the handlers, so no auth middleware wraps these routes.
	router.Route("/api", func(r chi.Router) {
		h := handlers.NewRevalidationHandler(
			rt.service,
			auth.NewSecretVerifier(rt.cfg.WebhookSecret),
			auth.NewSecretVerifier(rt.cfg.AdminSecret),
			auth.NewSecretVerifier(rt.cfg.RevalidateSecret),
			rt.logger,
		)
		r.Post("/webhooks/recipe", h.RecipeWebhook)
		r.Post("/admin/revalidate", h.AdminRevalidate)
		r.Get("/revalidate", h.RevalidateQuery)
		r.Post("/revalidate", h.Revalidate)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
