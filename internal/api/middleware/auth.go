package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"crm-service/internal/config"
	"crm-service/internal/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authorizeRequest(r, cfg.JWTSecret, logger); err != nil {
				if errors.Is(err, apperrors.ErrForbidden) {
					http.Error(w, `{"error":{"message":"Forbidden"}}`, http.StatusForbidden)
					return
				}
				http.Error(w, `{"error":{"message":"Unauthorized"}}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// authorizeRequest checks the bearer token signature and requires the Admin
// role claim the login endpoint issues.
func authorizeRequest(r *http.Request, secret string, logger *slog.Logger) error {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.Warn("AuthMiddleware: Missing Authorization header")
		return apperrors.ErrUnauthorized
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		logger.Warn("AuthMiddleware: Invalid Authorization header format")
		return apperrors.ErrUnauthorized
	}
	tokenString := parts[1]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			logger.Warn("AuthMiddleware: Unexpected signing method")
			return nil, http.ErrAbortHandler
		}
		return []byte(secret), nil
	})

	if err != nil || !token.Valid {
		logger.Warn("AuthMiddleware: Invalid token", "error", err)
		return apperrors.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "Admin" {
		logger.Warn("AuthMiddleware: Token lacks the Admin role")
		return apperrors.ErrForbidden
	}

	return nil
}
