package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTVerifier_ValidToken(t *testing.T) {
	v := NewJWTVerifier("test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{
		"sub":   "user-123",
		"email": "admin@flithub.ie",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	user, err := v.GetUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	assert.Equal(t, "admin@flithub.ie", user.Email)
}

func TestJWTVerifier_Rejections(t *testing.T) {
	v := NewJWTVerifier("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not.a.jwt"},
		{
			"wrong secret",
			signToken(t, "other-secret", jwt.MapClaims{"sub": "user-123", "exp": time.Now().Add(time.Hour).Unix()}),
		},
		{
			"expired token",
			signToken(t, "test-secret", jwt.MapClaims{"sub": "user-123", "exp": time.Now().Add(-time.Hour).Unix()}),
		},
		{
			"missing subject",
			signToken(t, "test-secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.GetUser(context.Background(), tt.token)
			assert.True(t, errors.Is(err, ErrUnauthorized), "expected ErrUnauthorized, got %v", err)
		})
	}
}

func TestHTTPVerifier_ValidToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-abc", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "user-456", "email": "someone@example.com"}`))
	}))
	defer server.Close()

	v := NewHTTPVerifier(server.URL, 5*time.Second)
	user, err := v.GetUser(context.Background(), "token-abc")
	require.NoError(t, err)
	assert.Equal(t, "user-456", user.ID)
}

func TestHTTPVerifier_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	v := NewHTTPVerifier(server.URL, 5*time.Second)
	_, err := v.GetUser(context.Background(), "bad-token")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestHTTPVerifier_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	v := NewHTTPVerifier(server.URL, 5*time.Second)
	_, err := v.GetUser(context.Background(), "token")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnauthorized), "5xx should not map to unauthorized")
}

func TestHTTPVerifier_EmptyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	v := NewHTTPVerifier(server.URL, 5*time.Second)
	_, err := v.GetUser(context.Background(), "token")
	assert.True(t, errors.Is(err, ErrUnauthorized))
}
