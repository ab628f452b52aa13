// Package rest wires the HTTP surface: routes, middleware, and handlers.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"userapi-backend/application/ports"
	"userapi-backend/application/services"
	"userapi-backend/infrastructure/config"
	"userapi-backend/infrastructure/observability"
	"userapi-backend/interfaces/http/rest/handlers"
	"userapi-backend/interfaces/http/rest/middleware"
	"userapi-backend/pkg/common"
	apperrors "userapi-backend/pkg/errors"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Collector
	users   *services.UserService
	auth    *services.AuthService
	repo    ports.UserRepository
	cache   ports.Cache
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	metrics *observability.Collector,
	users *services.UserService,
	auth *services.AuthService,
	repo ports.UserRepository,
	cache ports.Cache,
) *Router {
	return &Router{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		users:   users,
		auth:    auth,
		repo:    repo,
		cache:   cache,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders:   []string{middleware.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	errHandler := apperrors.NewHandler(rt.logger, rt.cfg.IsDevelopment())

	healthHandler := handlers.NewHealthHandler(rt.repo, rt.cache, rt.logger)
	router.Get("/health", healthHandler.Check)

	if rt.cfg.EnableMetrics {
		router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			rt.metrics.Registry(),
			promhttp.HandlerOpts{},
		))
	}

	router.Route("/api/auth", func(r chi.Router) {
		authHandler := handlers.NewAuthHandler(rt.auth, errHandler, rt.logger)
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	router.Route("/api/users", func(r chi.Router) {
		userHandler := handlers.NewUserHandler(rt.users, errHandler, rt.logger)
		r.Get("/", userHandler.List)
		r.Post("/", userHandler.Create)
		r.Get("/{userID}", userHandler.Get)
		r.Put("/{userID}", userHandler.Update)
		r.Patch("/{userID}", userHandler.Update)
		r.Delete("/{userID}", userHandler.Delete)
	})

	// JSON 404 for everything else
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondError(w, http.StatusNotFound, "route not found")
	})

	return router
}
