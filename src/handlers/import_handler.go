package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/famfolio/backend/src/config"
	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/security/validation"
	"github.com/username/famfolio/backend/src/services"
	"github.com/username/famfolio/backend/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// HandleImport ingests a CSV file into the asset's value history. The
// response always carries per-row outcomes: imported/failed counts plus one
// reason string per rejected line.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(config.Cfg.MaxImportSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "assetID", assetID, "error", err, "limit", config.Cfg.MaxImportSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d bytes)", config.Cfg.MaxImportSizeBytes), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxImportSizeBytes {
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d bytes", config.Cfg.MaxImportSizeBytes), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		logger.L.Warn("Invalid client-declared file type", "assetID", assetID, "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.L.Info("Processing import request", "assetID", assetID, "filename", fileHeader.Filename)
	result, err := h.importService.ProcessImport(file, assetID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Asset %d not found", assetID), http.StatusNotFound)
			return
		}
		if errors.Is(err, services.ErrParsingFailed) {
			logger.L.Warn("Import failed during parsing", "assetID", assetID, "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing CSV file: %v", err), http.StatusBadRequest)
			return
		}
		logger.L.Error("Internal error processing import", "assetID", assetID, "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for import result", "assetID", assetID, "error", err)
	}
}
