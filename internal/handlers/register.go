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

//go:generate mockgen -source=register.go -destination=mock_register.go -package=handlers

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, username, email, password string) error
}

// NewRegisterHandler returns an HTTP handler for account registration.
// @Summary Register a new account
// @Description Creates a farmer account. The email must be unique. Password is hashed before storing.
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body models.RegisterRequest true "Registration request"
// @Success 200 {object} models.MessageResponse "User registered"
// @Failure 400 {object} models.MessageResponse "User already exists / invalid request"
// @Failure 500 {object} models.MessageResponse "Internal server error"
// @Router /register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Invalid request body"})
			return
		}

		err := svc.Register(r.Context(), "", req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "User already exists"})
			case errors.Is(err, services.ErrInvalidInput):
				writeJSON(w, http.StatusBadRequest, models.MessageResponse{Message: "Email and password are required"})
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeJSON(w, http.StatusInternalServerError, models.MessageResponse{Message: "Internal server error"})
			}
			return
		}

		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "User registered"})
	}
}
