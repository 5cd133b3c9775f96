package processors

import (
	"strconv"

	"github.com/username/famfolio/backend/src/models"
)

type PortfolioProcessor struct{}

func NewPortfolioProcessor() *PortfolioProcessor {
	return &PortfolioProcessor{}
}

// Aggregate sums current and invested value across the whole collection.
func (p *PortfolioProcessor) Aggregate(assets []models.Asset) models.PortfolioStats {
	return p.AggregateFiltered(assets, nil)
}

// AggregateFiltered sums only the assets the predicate keeps; a nil
// predicate keeps everything. Grouping keys are the asset's category string
// and its owner ID; zero-valued groups stay in the maps and consumers filter
// them out. Owner IDs are resolved to display names at the boundary, never
// here.
func (p *PortfolioProcessor) AggregateFiltered(assets []models.Asset, keep func(models.Asset) bool) models.PortfolioStats {
	stats := models.PortfolioStats{
		ByCategory: make(map[string]float64),
		ByOwner:    make(map[string]float64),
	}

	for _, asset := range assets {
		if keep != nil && !keep(asset) {
			continue
		}
		stats.TotalValue += asset.CurrentValue
		stats.TotalInvested += asset.PurchaseAmount
		stats.ByCategory[asset.Category] += asset.CurrentValue
		stats.ByOwner[strconv.FormatInt(asset.PersonID, 10)] += asset.CurrentValue
	}

	stats.TotalGain = stats.TotalValue - stats.TotalInvested
	if stats.TotalInvested != 0 {
		stats.GainPercentage = stats.TotalGain / stats.TotalInvested * 100
	}
	return stats
}
