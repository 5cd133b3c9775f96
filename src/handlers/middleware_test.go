package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/security"
)

func TestAuthMiddleware(t *testing.T) {
	logger.InitLogger("error")
	authService := security.NewAuthService("test-secret-at-least-32-bytes-long!", time.Hour)

	okHandler := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}

	t.Run("disabled passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		AuthMiddleware(authService, false, okHandler)(rec, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		AuthMiddleware(authService, true, okHandler)(rec, httptest.NewRequest(http.MethodGet, "/api/assets", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		AuthMiddleware(authService, true, okHandler)(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := authService.GenerateToken("family")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/assets", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		AuthMiddleware(authService, true, okHandler)(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
