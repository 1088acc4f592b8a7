package jwt

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-plant-doctor/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{ID: "42", Email: "farmer@example.com", Role: models.RoleFarmer}
}

func TestJWT_GenerateAndGetClaims(t *testing.T) {
	j := New(WithSecretKey("test-secret"), WithExpiration(time.Minute))
	ctx := context.Background()

	token, err := j.Generate(ctx, testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := j.GetClaims(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "farmer@example.com", claims.Email)
	assert.Equal(t, models.RoleFarmer, claims.Role)
}

func TestJWT_ExpiredToken(t *testing.T) {
	j := New(WithSecretKey("test-secret"), WithExpiration(-time.Minute))
	ctx := context.Background()

	token, err := j.Generate(ctx, testUser())
	require.NoError(t, err)

	claims, err := j.GetClaims(ctx, token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWT_InvalidToken(t *testing.T) {
	j := New(WithSecretKey("secret"))
	ctx := context.Background()

	claims, err := j.GetClaims(ctx, "invalid.token.string")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWT_WrongSecret(t *testing.T) {
	j1 := New(WithSecretKey("secret1"))
	j2 := New(WithSecretKey("secret2"))
	ctx := context.Background()

	token, err := j1.Generate(ctx, testUser())
	require.NoError(t, err)

	_, err = j2.GetClaims(ctx, token)
	assert.Error(t, err)
}

func TestJWT_NoSecretUsesRandomKey(t *testing.T) {
	ctx := context.Background()
	admin := &models.User{ID: "1", Email: "attacker@example.com", Role: models.RoleAdmin}

	for _, j := range []*JWT{New(), New(WithSecretKey(""))} {
		assert.True(t, j.Ephemeral())

		// A token signed with a guessable development key must not be accepted.
		forged, err := New(WithSecretKey("my_super_secret_key")).Generate(ctx, admin)
		require.NoError(t, err)
		_, err = j.GetClaims(ctx, forged)
		assert.Error(t, err)

		// Nor a token from another process with its own random key.
		other, err := New().Generate(ctx, admin)
		require.NoError(t, err)
		_, err = j.GetClaims(ctx, other)
		assert.Error(t, err)

		own, err := j.Generate(ctx, admin)
		require.NoError(t, err)
		claims, err := j.GetClaims(ctx, own)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, claims.Role)
	}

	assert.False(t, New(WithSecretKey("configured")).Ephemeral())
}

func TestJWT_GetTokenFromRequest(t *testing.T) {
	j := New()
	ctx := context.Background()

	tests := []struct {
		name          string
		header        string
		expectedToken string
		expectError   bool
	}{
		{"ValidBearer", "Bearer mytoken123", "mytoken123", false},
		{"LowercaseBearer", "bearer mytoken123", "mytoken123", false},
		{"NoHeader", "", "", true},
		{"InvalidFormat", "Token mytoken123", "", true},
		{"TooManyParts", "Bearer a b c", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequestWithContext(ctx, http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			token, err := j.GetTokenFromRequest(ctx, req)
			if tt.expectError {
				assert.Error(t, err)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedToken, token)
			}
		})
	}
}
