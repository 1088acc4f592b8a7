package handlers

import (
	"context"
	"net/http"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
)

//go:generate mockgen -source=users.go -destination=mock_users.go -package=handlers

// AccountLister lists every account.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]models.User, error)
}

// NewListUsersHandler returns an HTTP handler listing all accounts. Password hashes are never included.
// @Summary List accounts
// @Description Returns every registered account. Requires an admin token.
// @Tags admin
// @Produce json
// @Success 200 {array} models.User "Accounts"
// @Failure 401 "Unauthorized"
// @Failure 403 "Forbidden"
// @Failure 500 {object} models.MessageResponse "Failed to load users"
// @Router /users [get]
// @Security BearerAuth
func NewListUsersHandler(svc AccountLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.ListAccounts(r.Context())
		if err != nil {
			logger.Log.Errorw("failed to list users", "err", err)
			writeJSON(w, http.StatusInternalServerError, models.MessageResponse{Message: "Failed to load users"})
			return
		}
		if users == nil {
			users = []models.User{}
		}
		writeJSON(w, http.StatusOK, users)
	}
}
