package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-service/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func signTestToken(t *testing.T, secret, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"name": "admin",
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAuthMiddlewareDisabledPassesThrough(t *testing.T) {
	cfg := config.AuthConfig{Enabled: false}
	handler := AuthMiddleware(cfg, discardLogger)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/customer", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}
	handler := AuthMiddleware(cfg, discardLogger)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/customer", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", "Admin"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsNonAdminRole(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}
	handler := AuthMiddleware(cfg, discardLogger)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/customer", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "test-secret", "User"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Forbidden")
}

func TestAuthMiddlewareRejectsBadRequests(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}
	handler := AuthMiddleware(cfg, discardLogger)(okHandler())

	testCases := []struct {
		name       string
		authHeader string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic YWRtaW46YWRtaW4="},
		{"garbage token", "Bearer not.a.token"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/customer", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "test-secret"}
	handler := AuthMiddleware(cfg, discardLogger)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/customer", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "another-secret", "Admin"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
