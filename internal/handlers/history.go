package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
)

//go:generate mockgen -source=history.go -destination=mock_history.go -package=handlers

// HistoryLister lists analysis history newest first.
type HistoryLister interface {
	ListRecent(ctx context.Context) ([]models.HistoryEntry, error)
}

// NewHistoryHandler returns an HTTP handler for the analysis history.
// @Summary Analysis history
// @Description Returns every past analysis, newest first
// @Tags analysis
// @Produce json
// @Success 200 {array} models.HistoryEntry "History entries"
// @Failure 500 {object} models.HistoryErrorResponse "Failed to load history"
// @Router /history [get]
func NewHistoryHandler(svc HistoryLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListRecent(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to load history", "err", err)
			writeJSON(w, http.StatusInternalServerError, models.HistoryErrorResponse{Message: "Failed to load history"})
			return
		}
		if entries == nil {
			entries = []models.HistoryEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}
