package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/famfolio/backend/src/config"
	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/security"
	"github.com/username/famfolio/backend/src/utils"
)

type AuthHandler struct {
	authService *security.AuthService
}

func NewAuthHandler(authService *security.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// HandleLogin exchanges the shared family password for a bearer token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if config.Cfg.FamilyPasswordHash == "" {
		utils.SendJSONError(w, "Authentication is not configured on this server", http.StatusNotFound)
		return
	}

	var payload struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.authService.CheckFamilyPassword(config.Cfg.FamilyPasswordHash, payload.Password); err != nil {
		logger.L.Warn("Login failed", "remoteAddr", r.RemoteAddr)
		utils.SendJSONError(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken("family")
	if err != nil {
		logger.L.Error("Error generating token", "error", err)
		utils.SendJSONError(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}
