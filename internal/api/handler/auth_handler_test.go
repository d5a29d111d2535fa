package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"crm-service/internal/api/handler/dto"
	"crm-service/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig() config.Config {
	return config.Config{
		Server: config.ServerConfig{
			Auth: config.AuthConfig{
				Enabled:          true,
				JWTSecret:        "test-secret",
				Issuer:           "crm-service",
				Audience:         "crm-clients",
				ExpiresInMinutes: 60,
				AdminUsername:    "admin",
				AdminPassword:    "admin123",
			},
		},
	}
}

func setupAuthHandler() *AuthHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuthHandler(testAuthConfig(), logger)
}

func performLogin(t *testing.T, h *AuthHandler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Login(w, req)
	return w
}

func TestLoginIssuesAdminToken(t *testing.T) {
	h := setupAuthHandler()

	body, _ := json.Marshal(dto.LoginRequest{Username: "admin", Password: "admin123"})
	w := performLogin(t, h, body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotEmpty(t, resp.Token)

	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin", claims["name"])
	assert.Equal(t, "Admin", claims["role"])
	assert.Equal(t, "crm-service", claims["iss"])
	assert.Equal(t, "crm-clients", claims["aud"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	iat, ok := claims["iat"].(float64)
	require.True(t, ok)
	assert.Equal(t, float64(60*60), exp-iat, "token must expire after the configured number of minutes")
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	h := setupAuthHandler()

	testCases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"wrong username", "root", "admin123"},
		{"both wrong", "root", "toor"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(dto.LoginRequest{Username: tc.username, Password: tc.password})
			w := performLogin(t, h, body)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var resp dto.ErrorResponse
			assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, "Invalid credentials.", resp.Error.Message)
		})
	}
}

func TestLoginRejectsBlankFields(t *testing.T) {
	h := setupAuthHandler()

	testCases := []struct {
		name string
		body string
	}{
		{"empty username", `{"username":"","password":"admin123"}`},
		{"empty password", `{"username":"admin","password":""}`},
		{"whitespace only", `{"username":"   ","password":"   "}`},
		{"empty object", `{}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := performLogin(t, h, []byte(tc.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestLoginRejectsUnparsableBody(t *testing.T) {
	h := setupAuthHandler()

	w := performLogin(t, h, []byte("not json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
