package models

import "time"

// Person is an owner label. Assets reference people by ID; grouping keys in
// portfolio stats stay opaque and are resolved to names at the boundary.
type Person struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ValueEntry is one dated observation of an asset's value. InvestmentChange
// is signed: positive means capital added, negative means withdrawal.
type ValueEntry struct {
	ID               int64     `json:"id"`
	AssetID          int64     `json:"asset_id"`
	Date             time.Time `json:"date"`
	Value            float64   `json:"value"`
	InvestmentChange float64   `json:"investment_change"`
	Notes            string    `json:"notes"`
}

// Asset is a tracked investment. CurrentValue mirrors the value of the most
// recent entry when history is non-empty; PurchaseAmount is the capital
// basis (initial purchase plus summed investment changes). Both are
// recomputed by the service layer after entry mutations, never by the
// calculators.
type Asset struct {
	ID             int64        `json:"id"`
	Name           string       `json:"name"`
	Category       string       `json:"category"`
	PersonID       int64        `json:"person_id"`
	PurchaseDate   time.Time    `json:"purchase_date"`
	PurchaseAmount float64      `json:"purchase_amount"`
	CurrentValue   float64      `json:"current_value"`
	Entries        []ValueEntry `json:"entries,omitempty"`
}

// HeatmapCell is one calendar month's computed return for an asset.
type HeatmapCell struct {
	Month         string  `json:"month"` // YYYY-MM
	Value         float64 `json:"value"`
	PreviousValue float64 `json:"previous_value"`
	ChangeValue   float64 `json:"change_value"`
	ChangePercent float64 `json:"change_percent"`
}

// HeatmapYearRow is one calendar year of monthly cells. Cells[i] is nil for
// months with no observation (gaps and months outside the data range).
type HeatmapYearRow struct {
	Year        int              `json:"year"`
	Cells       [12]*HeatmapCell `json:"cells"`
	StartValue  float64          `json:"start_value"`
	EndValue    float64          `json:"end_value"`
	TotalChange float64          `json:"total_change"`
	TotalReturn float64          `json:"total_return"`
}

// ReturnsSummary is the dispersion view over a set of monthly returns.
// Volatility is the population standard deviation, not annualized.
type ReturnsSummary struct {
	Volatility float64 `json:"volatility"`
	BestMonth  float64 `json:"best_month"`
	WorstMonth float64 `json:"worst_month"`
}

// GainResult splits a value change into capital movement and market
// performance.
type GainResult struct {
	MarketGain        float64 `json:"market_gain"`
	MarketGainPercent float64 `json:"market_gain_percent"`
}

// PortfolioStats aggregates current and invested value across assets.
type PortfolioStats struct {
	TotalValue     float64            `json:"total_value"`
	TotalInvested  float64            `json:"total_invested"`
	TotalGain      float64            `json:"total_gain"`
	GainPercentage float64            `json:"gain_percentage"`
	ByCategory     map[string]float64 `json:"by_category"`
	ByOwner        map[string]float64 `json:"by_owner"`
}

// ImportResult is what a CSV import reports back: aggregate counts plus one
// human-readable reason per rejected row.
type ImportResult struct {
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors"`
}

// BackupDocument is the full data set as one JSON document, consumed
// wholesale by restore.
type BackupDocument struct {
	ExportedAt time.Time    `json:"exported_at"`
	People     []Person     `json:"people"`
	Assets     []Asset      `json:"assets"`
	Entries    []ValueEntry `json:"entries"`
}
