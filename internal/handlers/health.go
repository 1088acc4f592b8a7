package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
)

// HealthResponse reports store reachability
// swagger:model HealthResponse
type HealthResponse struct {
	// example: ok
	Status string `json:"status"`
}

// NewHealthHandler returns an HTTP handler that pings the backing store.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} handlers.HealthResponse "Store reachable"
// @Failure 503 {object} handlers.HealthResponse "Store unreachable"
// @Router /health [get]
func NewHealthHandler(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := ping(r.Context()); err != nil {
			logger.Log.Errorw("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
