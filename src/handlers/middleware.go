package handlers

import (
	"net/http"
	"strings"

	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/security"
	"github.com/username/famfolio/backend/src/utils"
)

// AuthMiddleware guards a handler with a bearer token check. When no family
// password is configured the check is skipped entirely and the API runs
// open, which is the expected mode for a single trusted household network.
func AuthMiddleware(authService *security.AuthService, enabled bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !enabled {
			next(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.L.Debug("AuthMiddleware: Authorization header missing", "path", r.URL.Path)
			utils.SendJSONError(w, "Authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			logger.L.Debug("AuthMiddleware: Token string empty", "path", r.URL.Path)
			utils.SendJSONError(w, "Malformed token", http.StatusUnauthorized)
			return
		}

		if _, err := authService.ValidateToken(tokenString); err != nil {
			logger.L.Warn("AuthMiddleware: Token validation failed", "path", r.URL.Path, "error", err)
			utils.SendJSONError(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}
