package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/models"
	"github.com/username/famfolio/backend/src/services"
	"github.com/username/famfolio/backend/src/utils"
)

type BackupHandler struct {
	backupService services.BackupService
}

func NewBackupHandler(backupService services.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

func (h *BackupHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	doc, err := h.backupService.Export()
	if err != nil {
		logger.L.Error("Error exporting backup", "error", err)
		utils.SendJSONError(w, "Error exporting backup", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="famfolio-backup.json"`)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		logger.L.Error("Error encoding backup document", "error", err)
	}
}

func (h *BackupHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	var doc models.BackupDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		utils.SendJSONError(w, "Invalid backup document", http.StatusBadRequest)
		return
	}
	if err := h.backupService.Restore(&doc); err != nil {
		if errors.Is(err, services.ErrRestoreFailed) {
			logger.L.Warn("Restore rejected", "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Restore failed: %v", err), http.StatusBadRequest)
			return
		}
		logger.L.Error("Internal error during restore", "error", err)
		utils.SendJSONError(w, "An internal error occurred during restore", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "restore complete"})
}
