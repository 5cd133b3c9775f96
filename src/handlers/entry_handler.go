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

type EntryHandler struct {
	assetService services.AssetService
}

func NewEntryHandler(assetService services.AssetService) *EntryHandler {
	return &EntryHandler{assetService: assetService}
}

type entryPayload struct {
	Date             string  `json:"date"`
	Value            float64 `json:"value"`
	InvestmentChange float64 `json:"investment_change"`
	Notes            string  `json:"notes"`
}

func (h *EntryHandler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entries, err := h.assetService.ListEntries(assetID)
	if err != nil {
		logger.L.Error("Error listing entries", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Error retrieving entries", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []models.ValueEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (h *EntryHandler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entry, ok := h.decodeEntry(w, r, assetID)
	if !ok {
		return
	}
	created, err := h.assetService.AddEntry(entry)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Asset %d not found", assetID), http.StatusNotFound)
			return
		}
		logger.L.Error("Error adding entry", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Error adding entry", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *EntryHandler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	entry, ok := h.decodeEntry(w, r, assetID)
	if !ok {
		return
	}
	entry.ID = entryID
	if err := h.assetService.UpdateEntry(entry); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Entry %d not found for asset %d", entryID, assetID), http.StatusNotFound)
			return
		}
		logger.L.Error("Error updating entry", "assetID", assetID, "entryID", entryID, "error", err)
		utils.SendJSONError(w, "Error updating entry", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

func (h *EntryHandler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	entryID, ok := pathID(w, r, "entryID")
	if !ok {
		return
	}
	if err := h.assetService.DeleteEntry(assetID, entryID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Entry %d not found for asset %d", entryID, assetID), http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting entry", "assetID", assetID, "entryID", entryID, "error", err)
		utils.SendJSONError(w, "Error deleting entry", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntryHandler) decodeEntry(w http.ResponseWriter, r *http.Request, assetID int64) (*models.ValueEntry, bool) {
	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	date, ok := utils.ParseFlexibleDate(payload.Date)
	if !ok {
		utils.SendJSONError(w, fmt.Sprintf("Unparsable date %q", payload.Date), http.StatusBadRequest)
		return nil, false
	}
	if payload.Value <= 0 {
		utils.SendJSONError(w, "Value must be greater than zero", http.StatusBadRequest)
		return nil, false
	}
	return &models.ValueEntry{
		AssetID:          assetID,
		Date:             date,
		Value:            payload.Value,
		InvestmentChange: payload.InvestmentChange,
		Notes:            payload.Notes,
	}, true
}
