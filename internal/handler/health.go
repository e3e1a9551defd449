package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"cloudnote/internal/httputil"
)

// Pinger checks database connectivity; *pgxpool.Pool satisfies it
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and database health
type HealthHandler struct {
	db          Pinger
	environment string
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, environment string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		environment: environment,
		logger:      logger,
	}
}

// Health pings the database
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check failed", "error", err)
		httputil.RespondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "error",
			"timestamp": time.Now().UnixMilli(),
			"database":  "disconnected",
			"error":     err.Error(),
		})
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"timestamp":   time.Now().UnixMilli(),
		"database":    "connected",
		"environment": h.environment,
	})
}
