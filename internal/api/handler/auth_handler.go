package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"crm-service/internal/api/handler/dto"
	"crm-service/internal/config"
	"crm-service/internal/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	cfg    config.Config
	logger *slog.Logger
}

func NewAuthHandler(cfg config.Config, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
	}
}

// Login handles POST /api/admin/login
//
// @Summary Authenticate the admin account
// @Description Verifies the configured admin credential pair and issues a signed, time-limited JWT asserting the Admin role.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Admin credentials"
// @Success 200 {object} dto.TokenResponse "Token successfully issued"
// @Failure 400 {object} dto.ErrorResponse "Missing username or password"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.logger.DebugContext(r.Context(), "Received admin login request")

	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		h.logger.WarnContext(r.Context(), "Validation failed: username or password is blank")
		respondError(w, fmt.Errorf("%w: username and password are required", apperrors.ErrInvalidArgument))
		return
	}

	auth := h.cfg.Server.Auth
	if req.Username != auth.AdminUsername || req.Password != auth.AdminPassword {
		h.logger.WarnContext(r.Context(), "Admin login rejected", slog.String("username", req.Username))
		respondError(w, apperrors.ErrUnauthorized)
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"name": req.Username,
		"role": "Admin",
		"iss":  auth.Issuer,
		"aud":  auth.Audience,
		"iat":  now.Unix(),
		"exp":  now.Add(time.Duration(auth.ExpiresInMinutes) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(auth.JWTSecret))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: failed to sign token", apperrors.ErrInternalServer))
		return
	}

	h.logger.InfoContext(r.Context(), "Admin token issued", slog.String("username", req.Username))
	respondJSON(w, http.StatusOK, dto.TokenResponse{Token: tokenString})
}
