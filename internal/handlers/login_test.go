package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/sbilibin2017/gw-plant-doctor/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.User{ID: "66f1c2a9e4b0a1b2c3d4e5f6", Email: "farmer@example.com", Role: models.RoleFarmer, PasswordHash: "hash"}

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockAuthenticator)
		expectedCode int
		expectedBody string
	}{
		{
			name: "success",
			body: `{"email":"farmer@example.com","password":"secret"}`,
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "farmer@example.com", "secret").Return(user, "tok", nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"user":{"id":"66f1c2a9e4b0a1b2c3d4e5f6","email":"farmer@example.com","role":"farmer"},"token":"tok"}`,
		},
		{
			name: "unknown email",
			body: `{"email":"ghost@example.com","password":"secret"}`,
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "ghost@example.com", "secret").Return(nil, "", services.ErrUserDoesNotExist)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Invalid credentials"}`,
		},
		{
			name: "wrong password",
			body: `{"email":"farmer@example.com","password":"nope"}`,
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "farmer@example.com", "nope").Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Invalid credentials"}`,
		},
		{
			name: "internal error",
			body: `{"email":"farmer@example.com","password":"secret"}`,
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "farmer@example.com", "secret").Return(nil, "", errors.New("mongo down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"Internal server error"}`,
		},
		{
			name:         "invalid json",
			body:         "{",
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockAuthenticator(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			NewLoginHandler(mockSvc)(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestSignInHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.User{ID: "1", Username: "john_doe", Email: "john@example.com", Role: models.RoleFarmer, PasswordHash: "hash"}

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockAuthenticator)
		expectedCode int
		expectedText string
	}{
		{
			name: "unknown email",
			body: `{"email":"ghost@example.com","password":"secret"}`,
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "ghost@example.com", "secret").Return(nil, "", services.ErrUserDoesNotExist)
			},
			expectedCode: http.StatusBadRequest,
			expectedText: "User not found",
		},
		{
			name: "wrong password",
			body: `{"email":"john@example.com","password":"nope"}`,
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "john@example.com", "nope").Return(nil, "", services.ErrInvalidCredentials)
			},
			expectedCode: http.StatusBadRequest,
			expectedText: "Wrong password",
		},
		{
			name: "internal error",
			body: `{"email":"john@example.com","password":"secret"}`,
			mockSetup: func(m *MockAuthenticator) {
				m.EXPECT().Authenticate(gomock.Any(), "john@example.com", "secret").Return(nil, "", errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedText: "Internal server error",
		},
		{
			name:         "invalid json",
			body:         "nope",
			expectedCode: http.StatusBadRequest,
			expectedText: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockAuthenticator(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			NewSignInHandler(mockSvc)(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedText, rr.Body.String())
		})
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := NewMockAuthenticator(ctrl)
		mockSvc.EXPECT().Authenticate(gomock.Any(), "john@example.com", "secret").Return(user, "tok", nil)

		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(`{"email":"john@example.com","password":"secret"}`))
		rr := httptest.NewRecorder()
		NewSignInHandler(mockSvc)(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp models.SignInResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, models.SignInResponse{ID: "1", Username: "john_doe", Email: "john@example.com", Role: "farmer", Token: "tok"}, resp)
		assert.NotContains(t, rr.Body.String(), "hash")
	})
}
