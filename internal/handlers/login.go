package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/sbilibin2017/gw-plant-doctor/internal/services"
)

//go:generate mockgen -source=login.go -destination=mock_login.go -package=handlers

// Authenticator defines the interface that the login service must implement.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
}

// NewLoginHandler returns the document-store gateway's login handler.
// @Summary Log in
// @Description Checks the credentials and returns the account with a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login request"
// @Success 200 {object} models.LoginResponse "Authenticated account"
// @Failure 400 {object} models.MessageResponse "Invalid credentials"
// @Failure 500 {object} models.MessageResponse "Internal server error"
// @Router /login [post]
func NewLoginHandler(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Invalid request body"})
			return
		}

		user, token, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidCredentials),
				errors.Is(err, services.ErrUserDoesNotExist),
				errors.Is(err, services.ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Invalid credentials"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.MessageResponse{Message: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, models.LoginResponse{
			User: models.LoginUser{
				ID:    user.ID,
				Email: user.Email,
				Role:  user.Role,
			},
			Token: token,
		})
	}
}

// NewSignInHandler returns the relational gateway's login handler.
// Failures are reported as plain text, success as the account JSON.
// @Summary Log in
// @Description Checks the credentials and returns the account with a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body models.LoginRequest true "Login request"
// @Success 200 {object} models.SignInResponse "Authenticated account"
// @Failure 400 {string} string "User not found / Wrong password"
// @Failure 500 {string} string "Internal server error"
// @Router /login [post]
func NewSignInHandler(svc Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeText(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		user, token, err := svc.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeText(w, http.StatusBadRequest, "User not found")
			case errors.Is(err, services.ErrInvalidCredentials):
				writeText(w, http.StatusBadRequest, "Wrong password")
			case errors.Is(err, services.ErrInvalidInput):
				writeText(w, http.StatusBadRequest, "Email and password are required")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeText(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, models.SignInResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
			Token:    token,
		})
	}
}
