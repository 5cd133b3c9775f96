package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/models"
	"github.com/username/famfolio/backend/src/services"
	"github.com/username/famfolio/backend/src/utils"
)

type AssetHandler struct {
	assetService services.AssetService
}

func NewAssetHandler(assetService services.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// assetPayload is the write shape for assets; dates arrive as free-form text
// and go through the same flexible parsing as CSV imports.
type assetPayload struct {
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	PersonID       int64   `json:"person_id"`
	PurchaseDate   string  `json:"purchase_date"`
	PurchaseAmount float64 `json:"purchase_amount"`
}

func (h *AssetHandler) HandleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assetService.ListAssets()
	if err != nil {
		logger.L.Error("Error listing assets", "error", err)
		utils.SendJSONError(w, "Error retrieving assets", http.StatusInternalServerError)
		return
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(assets)
}

func (h *AssetHandler) HandleGetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	asset, err := h.assetService.GetAsset(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Asset %d not found", id), http.StatusNotFound)
			return
		}
		logger.L.Error("Error retrieving asset", "assetID", id, "error", err)
		utils.SendJSONError(w, "Error retrieving asset", http.StatusInternalServerError)
		return
	}
	if asset.Entries == nil {
		asset.Entries = []models.ValueEntry{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

func (h *AssetHandler) HandleCreateAsset(w http.ResponseWriter, r *http.Request) {
	asset, ok := decodeAssetPayload(w, r)
	if !ok {
		return
	}
	if err := h.assetService.CreateAsset(asset); err != nil {
		logger.L.Error("Error creating asset", "name", asset.Name, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error creating asset: %v", err), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(asset)
}

func (h *AssetHandler) HandleUpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	asset, ok := decodeAssetPayload(w, r)
	if !ok {
		return
	}
	asset.ID = id
	if err := h.assetService.UpdateAsset(asset); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Asset %d not found", id), http.StatusNotFound)
			return
		}
		logger.L.Error("Error updating asset", "assetID", id, "error", err)
		utils.SendJSONError(w, "Error updating asset", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(asset)
}

func (h *AssetHandler) HandleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.assetService.DeleteAsset(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Asset %d not found", id), http.StatusNotFound)
			return
		}
		logger.L.Error("Error deleting asset", "assetID", id, "error", err)
		utils.SendJSONError(w, "Error deleting asset", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- shared helpers ---

func decodeAssetPayload(w http.ResponseWriter, r *http.Request) (*models.Asset, bool) {
	var payload assetPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}
	purchaseDate, ok := utils.ParseFlexibleDate(payload.PurchaseDate)
	if !ok {
		utils.SendJSONError(w, fmt.Sprintf("Unparsable purchase date %q", payload.PurchaseDate), http.StatusBadRequest)
		return nil, false
	}
	return &models.Asset{
		Name:           payload.Name,
		Category:       payload.Category,
		PersonID:       payload.PersonID,
		PurchaseDate:   purchaseDate,
		PurchaseAmount: payload.PurchaseAmount,
	}, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Invalid %s in path", name), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
