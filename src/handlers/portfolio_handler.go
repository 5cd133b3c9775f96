package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/models"
	"github.com/username/famfolio/backend/src/services"
	"github.com/username/famfolio/backend/src/utils"
)

type PortfolioHandler struct {
	reportService services.ReportService
}

func NewPortfolioHandler(reportService services.ReportService) *PortfolioHandler {
	return &PortfolioHandler{reportService: reportService}
}

// HandleGetPortfolioStats serves the aggregate figures, optionally filtered
// by ?category= and/or ?person=. Responses carry an ETag so the UI can skip
// re-rendering unchanged data.
func (h *PortfolioHandler) HandleGetPortfolioStats(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	personID := int64(0)
	if raw := r.URL.Query().Get("person"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			utils.SendJSONError(w, fmt.Sprintf("Invalid person filter %q", raw), http.StatusBadRequest)
			return
		}
		personID = parsed
	}

	stats, err := h.reportService.PortfolioStats(category, personID)
	if err != nil {
		logger.L.Error("Error computing portfolio stats", "error", err)
		utils.SendJSONError(w, "Error computing portfolio stats", http.StatusInternalServerError)
		return
	}

	writeWithETag(w, r, stats)
}

func (h *PortfolioHandler) HandleGetAssetHeatmap(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rows, err := h.reportService.AssetHeatmap(assetID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Asset %d not found", assetID), http.StatusNotFound)
			return
		}
		logger.L.Error("Error computing heatmap", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Error computing heatmap", http.StatusInternalServerError)
		return
	}
	if rows == nil {
		rows = []models.HeatmapYearRow{}
	}
	writeWithETag(w, r, rows)
}

func (h *PortfolioHandler) HandleGetAssetPerformance(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	perf, err := h.reportService.AssetPerformance(assetID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.SendJSONError(w, fmt.Sprintf("Asset %d not found", assetID), http.StatusNotFound)
			return
		}
		logger.L.Error("Error computing performance", "assetID", assetID, "error", err)
		utils.SendJSONError(w, "Error computing performance", http.StatusInternalServerError)
		return
	}

	// Percentages are rounded for display only; the engine's figures stay
	// exact in storage and in the other endpoints.
	rounded := *perf
	rounded.Summary.Volatility = utils.RoundFloat(perf.Summary.Volatility, 2)
	rounded.Summary.BestMonth = utils.RoundFloat(perf.Summary.BestMonth, 2)
	rounded.Summary.WorstMonth = utils.RoundFloat(perf.Summary.WorstMonth, 2)
	rounded.LatestGain.MarketGainPercent = utils.RoundFloat(perf.LatestGain.MarketGainPercent, 2)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rounded)
}

// writeWithETag gives heavy derived GETs conditional-request support.
func writeWithETag(w http.ResponseWriter, r *http.Request, data interface{}) {
	currentETag, etagErr := utils.GenerateETag(data)

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("%q", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error", "error", etagErr)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}
