package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/famfolio/backend/src/models"
)

func TestAggregate(t *testing.T) {
	p := NewPortfolioProcessor()

	assets := []models.Asset{
		{Name: "Index Fund", Category: "stocks", PersonID: 1, CurrentValue: 100, PurchaseAmount: 80},
		{Name: "Flat", Category: "real_estate", PersonID: 2, CurrentValue: 300, PurchaseAmount: 250},
	}

	stats := p.Aggregate(assets)
	assert.Equal(t, 400.0, stats.TotalValue)
	assert.Equal(t, 330.0, stats.TotalInvested)
	assert.Equal(t, 70.0, stats.TotalGain)
	assert.InDelta(t, 70.0/330.0*100, stats.GainPercentage, 1e-9)

	assert.Equal(t, 100.0, stats.ByCategory["stocks"])
	assert.Equal(t, 300.0, stats.ByCategory["real_estate"])
	assert.Equal(t, 100.0, stats.ByOwner["1"])
	assert.Equal(t, 300.0, stats.ByOwner["2"])
}

func TestAggregateEmpty(t *testing.T) {
	p := NewPortfolioProcessor()

	stats := p.Aggregate(nil)
	assert.Equal(t, 0.0, stats.TotalValue)
	assert.Equal(t, 0.0, stats.GainPercentage)
	assert.NotNil(t, stats.ByCategory)
	assert.NotNil(t, stats.ByOwner)
}

func TestAggregateZeroInvested(t *testing.T) {
	p := NewPortfolioProcessor()

	stats := p.Aggregate([]models.Asset{
		{Category: "other", PersonID: 1, CurrentValue: 50, PurchaseAmount: 0},
	})
	assert.Equal(t, 50.0, stats.TotalGain)
	assert.Equal(t, 0.0, stats.GainPercentage)
}

func TestAggregateFiltered(t *testing.T) {
	p := NewPortfolioProcessor()

	assets := []models.Asset{
		{Category: "stocks", PersonID: 1, CurrentValue: 100, PurchaseAmount: 80},
		{Category: "stocks", PersonID: 2, CurrentValue: 200, PurchaseAmount: 150},
		{Category: "crypto", PersonID: 1, CurrentValue: 40, PurchaseAmount: 60},
	}

	stats := p.AggregateFiltered(assets, func(a models.Asset) bool {
		return a.Category == "stocks"
	})
	assert.Equal(t, 300.0, stats.TotalValue)
	assert.Equal(t, 230.0, stats.TotalInvested)
	assert.NotContains(t, stats.ByCategory, "crypto")

	byOwner := p.AggregateFiltered(assets, func(a models.Asset) bool {
		return a.PersonID == 1
	})
	assert.Equal(t, 140.0, byOwner.TotalValue)
	assert.Equal(t, 140.0, byOwner.TotalGain+byOwner.TotalInvested)
}
