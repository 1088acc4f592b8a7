package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-plant-doctor/internal/jwt"
	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/sbilibin2017/gw-plant-doctor/internal/services"
)

//go:generate mockgen -source=forgot.go -destination=mock_forgot.go -package=handlers

// ForgotTokener defines only the methods needed by this handler.
type ForgotTokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// PasswordResetter replaces an account password.
type PasswordResetter interface {
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// NewForgotHandler returns the relational gateway's password reset handler.
// The bearer token must belong to the target account or to an admin.
// @Summary Reset password
// @Description Replaces the password of the given account. Requires a token for that account or an admin token.
// @Tags auth
// @Accept json
// @Produce plain
// @Param forgotRequest body models.ForgotRequest true "Password reset request"
// @Success 200 {string} string "Password updated"
// @Failure 400 {string} string "Invalid request body"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "User not found"
// @Failure 500 {string} string "Internal server error"
// @Router /forgot [post]
// @Security BearerAuth
func NewForgotHandler(svc PasswordResetter, tokener ForgotTokener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
		if err != nil {
			logger.Log.Errorw("unauthorized reset request", "err", err)
			writeText(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := tokener.GetClaims(ctx, tokenStr)
		if err != nil {
			logger.Log.Errorw("failed to parse token claims", "err", err)
			writeText(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req models.ForgotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeText(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if claims.Email != req.Email && claims.Role != models.RoleAdmin {
			logger.Log.Warnw("password reset for another account", "caller", claims.Email, "target", req.Email)
			writeText(w, http.StatusForbidden, "Forbidden")
			return
		}

		err = svc.ResetPassword(ctx, req.Email, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeText(w, http.StatusNotFound, "User not found")
			case errors.Is(err, services.ErrInvalidInput):
				writeText(w, http.StatusBadRequest, "Email and new password are required")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeText(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeText(w, http.StatusOK, "Password updated")
	}
}
