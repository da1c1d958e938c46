package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/stocklane/api/internal/infra/postgres"
	"github.com/stocklane/api/internal/infra/redis"
	"github.com/stocklane/api/pkg/logger"
)

// HealthHandler reports liveness and dependency health.
type HealthHandler struct {
	db     *postgres.DB
	redis  *redis.Client
	logger *logger.Logger
}

// NewHealthHandler creates a new HealthHandler. The redis client may
// be nil when caching is disabled.
func NewHealthHandler(db *postgres.DB, rc *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		redis:  rc,
		logger: log.With("handler", "health"),
	}
}

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	if err := h.db.HealthCheck(ctx); err != nil {
		resp.Status = "degraded"
		resp.Checks["postgres"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		resp.Checks["postgres"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Checks["redis"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			resp.Checks["redis"] = "ok"
		}
	}

	respondJSON(w, status, resp)
}
