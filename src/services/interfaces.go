package services

import (
	"errors"
	"io"

	"github.com/username/famfolio/backend/src/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrParsingFailed = errors.New("parsing failed")
	ErrRestoreFailed = errors.New("restore failed")
)

// PerformanceResult bundles the derived per-asset figures served by the
// performance endpoint.
type PerformanceResult struct {
	Summary       models.ReturnsSummary `json:"summary"`
	LatestGain    models.GainResult     `json:"latest_gain"`
	MonthsTracked int                   `json:"months_tracked"`
}

// PortfolioStatsResult carries the full aggregate and, when a filter was
// applied, the filtered subset next to it for comparison.
type PortfolioStatsResult struct {
	All      models.PortfolioStats  `json:"all"`
	Filtered *models.PortfolioStats `json:"filtered,omitempty"`
}

// AssetService owns persistent people, assets and value entries, and keeps
// each asset's derived fields in line with its history after every mutation.
type AssetService interface {
	CreatePerson(name string) (*models.Person, error)
	ListPeople() ([]models.Person, error)
	DeletePerson(id int64) error

	CreateAsset(asset *models.Asset) error
	GetAsset(id int64) (*models.Asset, error)
	ListAssets() ([]models.Asset, error)
	UpdateAsset(asset *models.Asset) error
	DeleteAsset(id int64) error

	AddEntry(entry *models.ValueEntry) (*models.ValueEntry, error)
	UpdateEntry(entry *models.ValueEntry) error
	DeleteEntry(assetID, entryID int64) error
	ListEntries(assetID int64) ([]models.ValueEntry, error)
}

// ImportService ingests free-form CSV text into an asset's value history.
type ImportService interface {
	ProcessImport(reader io.Reader, assetID int64) (*models.ImportResult, error)
}

// ReportService serves the derived portfolio and per-asset views.
type ReportService interface {
	PortfolioStats(category string, personID int64) (*PortfolioStatsResult, error)
	AssetHeatmap(assetID int64) ([]models.HeatmapYearRow, error)
	AssetPerformance(assetID int64) (*PerformanceResult, error)
}

// BackupService exports and restores the full data set as one JSON document.
type BackupService interface {
	Export() (*models.BackupDocument, error)
	Restore(doc *models.BackupDocument) error
}
