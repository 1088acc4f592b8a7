package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-plant-doctor/internal/logger"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/sbilibin2017/gw-plant-doctor/internal/services"
)

// NewSignupHandler returns the relational gateway's signup handler. Responses are plain text.
// @Summary Sign up
// @Description Creates a farmer account with an optional username. The email must be unique.
// @Tags auth
// @Accept json
// @Produce plain
// @Param signupRequest body models.SignupRequest true "Signup request"
// @Success 200 {string} string "Signup successful"
// @Failure 400 {string} string "User already exists"
// @Failure 500 {string} string "Internal server error"
// @Router /signup [post]
func NewSignupHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SignupRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeText(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserAlreadyExists):
				writeText(w, http.StatusBadRequest, "User already exists")
			case errors.Is(err, services.ErrInvalidInput):
				writeText(w, http.StatusBadRequest, "Email and password are required")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeText(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeText(w, http.StatusOK, "Signup successful")
	}
}
