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
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockRegisterer)
		expectedCode int
		expectedBody map[string]string
	}{
		{
			name: "success",
			body: `{"email":"john@example.com","password":"secret"}`,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "", "john@example.com", "secret").
					Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: map[string]string{"message": "User registered"},
		},
		{
			name: "user already exists",
			body: `{"email":"alice@example.com","password":"pass"}`,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "", "alice@example.com", "pass").
					Return(services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]string{"message": "User already exists"},
		},
		{
			name: "missing password",
			body: `{"email":"alice@example.com"}`,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "", "alice@example.com", "").
					Return(services.ErrInvalidInput)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]string{"message": "Email and password are required"},
		},
		{
			name: "internal server error",
			body: `{"email":"bob@example.com","password":"pass"}`,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().
					Register(gomock.Any(), "", "bob@example.com", "pass").
					Return(errors.New("database failure"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: map[string]string{"message": "Internal server error"},
		},
		{
			name:         "invalid json",
			body:         "{invalid json}",
			expectedCode: http.StatusBadRequest,
			expectedBody: map[string]string{"message": "Invalid request body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockRegisterer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewRegisterHandler(mockSvc)
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp map[string]string
			err := json.Unmarshal(rr.Body.Bytes(), &resp)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, resp)
		})
	}
}

func TestSignupHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		body         string
		mockSetup    func(m *MockRegisterer)
		expectedCode int
		expectedBody string
	}{
		{
			name: "success",
			body: `{"username":"john_doe","email":"john@example.com","password":"secret"}`,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().Register(gomock.Any(), "john_doe", "john@example.com", "secret").Return(nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: "Signup successful",
		},
		{
			name: "duplicate email",
			body: `{"username":"john2","email":"john@example.com","password":"secret"}`,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().Register(gomock.Any(), "john2", "john@example.com", "secret").Return(services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: "User already exists",
		},
		{
			name: "empty email",
			body: `{"username":"john","password":"secret"}`,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().Register(gomock.Any(), "john", "", "secret").Return(services.ErrInvalidInput)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: "Email and password are required",
		},
		{
			name: "store failure",
			body: `{"email":"x@example.com","password":"secret"}`,
			mockSetup: func(m *MockRegisterer) {
				m.EXPECT().Register(gomock.Any(), "", "x@example.com", "secret").Return(errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: "Internal server error",
		},
		{
			name:         "invalid json",
			body:         "not json",
			expectedCode: http.StatusBadRequest,
			expectedBody: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockRegisterer(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			req := httptest.NewRequest(http.MethodPost, "/signup", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			NewSignupHandler(mockSvc)(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, tt.expectedBody, rr.Body.String())
			assert.Contains(t, rr.Header().Get("Content-Type"), "text/plain")
		})
	}
}

func TestRegisterRequest_JSONShape(t *testing.T) {
	var req models.RegisterRequest
	assert.NoError(t, json.Unmarshal([]byte(`{"email":"a@b.c","password":"p"}`), &req))
	assert.Equal(t, "a@b.c", req.Email)
	assert.Equal(t, "p", req.Password)
}
