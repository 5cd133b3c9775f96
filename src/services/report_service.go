package services

import (
	"fmt"
	"strconv"

	"github.com/patrickmn/go-cache"
	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/models"
	"github.com/username/famfolio/backend/src/processors"
)

const (
	ckPortfolioStats   = "res_portfolio_stats_cat_%s_person_%d"
	ckAssetHeatmap     = "res_heatmap_asset_%d"
	ckAssetPerformance = "res_performance_asset_%d"
)

type reportServiceImpl struct {
	assets      AssetService
	heatmap     *processors.HeatmapProcessor
	gain        *processors.GainProcessor
	volatility  *processors.VolatilityProcessor
	portfolio   *processors.PortfolioProcessor
	reportCache *cache.Cache
}

func NewReportService(assets AssetService, reportCache *cache.Cache) ReportService {
	return &reportServiceImpl{
		assets:      assets,
		heatmap:     processors.NewHeatmapProcessor(),
		gain:        processors.NewGainProcessor(),
		volatility:  processors.NewVolatilityProcessor(),
		portfolio:   processors.NewPortfolioProcessor(),
		reportCache: reportCache,
	}
}

// PortfolioStats aggregates the whole collection and, when a category or
// person filter is given, the matching subset next to it. Owner keys are
// resolved from person IDs to display names here; the calculators only ever
// see opaque keys.
func (s *reportServiceImpl) PortfolioStats(category string, personID int64) (*PortfolioStatsResult, error) {
	cacheKey := fmt.Sprintf(ckPortfolioStats, category, personID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		logger.L.Debug("Cache hit for portfolio stats", "category", category, "personID", personID)
		return cached.(*PortfolioStatsResult), nil
	}

	assets, err := s.assets.ListAssets()
	if err != nil {
		return nil, err
	}
	people, err := s.assets.ListPeople()
	if err != nil {
		return nil, err
	}

	result := &PortfolioStatsResult{
		All: s.portfolio.Aggregate(assets),
	}
	if category != "" || personID != 0 {
		filtered := s.portfolio.AggregateFiltered(assets, func(a models.Asset) bool {
			if category != "" && a.Category != category {
				return false
			}
			if personID != 0 && a.PersonID != personID {
				return false
			}
			return true
		})
		result.Filtered = &filtered
	}

	result.All.ByOwner = resolveOwnerNames(result.All.ByOwner, people)
	if result.Filtered != nil {
		result.Filtered.ByOwner = resolveOwnerNames(result.Filtered.ByOwner, people)
	}

	s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func (s *reportServiceImpl) AssetHeatmap(assetID int64) ([]models.HeatmapYearRow, error) {
	cacheKey := fmt.Sprintf(ckAssetHeatmap, assetID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.([]models.HeatmapYearRow), nil
	}

	entries, err := s.entriesFor(assetID)
	if err != nil {
		return nil, err
	}

	rows := s.heatmap.Process(entries)
	s.reportCache.Set(cacheKey, rows, cache.DefaultExpiration)
	return rows, nil
}

// AssetPerformance derives the dispersion statistics of the asset's monthly
// returns plus the market-gain decomposition of its two most recent
// snapshots.
func (s *reportServiceImpl) AssetPerformance(assetID int64) (*PerformanceResult, error) {
	cacheKey := fmt.Sprintf(ckAssetPerformance, assetID)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*PerformanceResult), nil
	}

	entries, err := s.entriesFor(assetID)
	if err != nil {
		return nil, err
	}

	rows := s.heatmap.Process(entries)
	returns := s.heatmap.MonthlyReturns(rows)

	result := &PerformanceResult{
		Summary:       s.volatility.Summarize(returns),
		MonthsTracked: len(returns),
	}
	if n := len(entries); n >= 2 {
		latest := entries[n-1]
		previous := entries[n-2]
		result.LatestGain = s.gain.Decompose(latest.Value, previous.Value, latest.InvestmentChange)
	}

	s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

// entriesFor loads an asset's history, erroring with ErrNotFound for unknown
// assets so handlers can answer 404 instead of serving an empty report.
func (s *reportServiceImpl) entriesFor(assetID int64) ([]models.ValueEntry, error) {
	asset, err := s.assets.GetAsset(assetID)
	if err != nil {
		return nil, err
	}
	return asset.Entries, nil
}

func resolveOwnerNames(byOwner map[string]float64, people []models.Person) map[string]float64 {
	names := make(map[string]string, len(people))
	for _, p := range people {
		names[strconv.FormatInt(p.ID, 10)] = p.Name
	}
	resolved := make(map[string]float64, len(byOwner))
	for key, total := range byOwner {
		if name, ok := names[key]; ok {
			resolved[name] += total
		} else {
			resolved[key] += total
		}
	}
	return resolved
}
