package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"userapi-backend/application/ports"
	"userapi-backend/pkg/common"
)

// healthCheckTimeout bounds each dependency probe
const healthCheckTimeout = 2 * time.Second

// HealthHandler reports service health based on dependency probes
type HealthHandler struct {
	repo   ports.UserRepository
	cache  ports.Cache
	logger *zap.Logger
}

// NewHealthHandler creates a health handler
func NewHealthHandler(repo ports.UserRepository, cache ports.Cache, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// healthResponse is the health endpoint's data payload
type healthResponse struct {
	Status   string          `json:"status"`
	Services map[string]bool `json:"services"`
}

// Check handles GET /health. A dead cache degrades the status but keeps
// the endpoint at 200: the cache is an optimization, not a dependency.
// A dead store makes the service unhealthy.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	dbHealthy := true
	if err := h.repo.Ping(ctx); err != nil {
		h.logger.Error("database health check failed", zap.Error(err))
		dbHealthy = false
	}

	cacheHealthy := true
	if err := h.cache.Ping(ctx); err != nil {
		h.logger.Warn("cache health check failed", zap.Error(err))
		cacheHealthy = false
	}

	status := http.StatusOK
	body := healthResponse{
		Status: "healthy",
		Services: map[string]bool{
			"database": dbHealthy,
			"cache":    cacheHealthy,
		},
	}
	if !dbHealthy {
		status = http.StatusInternalServerError
		body.Status = "unhealthy"
	} else if !cacheHealthy {
		body.Status = "degraded"
	}

	common.RespondJSON(w, status, body)
}
