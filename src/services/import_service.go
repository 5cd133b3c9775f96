package services

import (
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/models"
	"github.com/username/famfolio/backend/src/parsers"
	"github.com/username/famfolio/backend/src/security/validation"
	"github.com/username/famfolio/backend/src/utils"
)

type importServiceImpl struct {
	db          *sql.DB
	parser      *parsers.SnapshotCSVParser
	reportCache *cache.Cache
}

func NewImportService(db *sql.DB, parser *parsers.SnapshotCSVParser, reportCache *cache.Cache) ImportService {
	return &importServiceImpl{
		db:          db,
		parser:      parser,
		reportCache: reportCache,
	}
}

// ProcessImport runs the whole ingestion pipeline for one asset: read the
// payload, parse it row by row, store the accepted entries in a single
// database transaction and recompute the asset's derived fields. Rejected
// rows never abort the import; each contributes a reason to the result.
func (s *importServiceImpl) ProcessImport(reader io.Reader, assetID int64) (*models.ImportResult, error) {
	startTime := time.Now()
	logger.L.Info("ProcessImport START", "assetID", assetID)

	var exists int
	if err := s.db.QueryRow(`SELECT 1 FROM assets WHERE id = ?`, assetID).Scan(&exists); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error checking asset %d: %w", assetID, err)
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading payload: %v", ErrParsingFailed, err)
	}

	rowResults := s.parser.Parse(string(raw))

	result := &models.ImportResult{Errors: []string{}}

	dbTx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(
		`INSERT INTO value_entries (asset_id, date, value, investment_change, notes) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(asset_id, date) DO UPDATE SET value = excluded.value, investment_change = excluded.investment_change, notes = excluded.notes`)
	if err != nil {
		return nil, fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rowResults {
		if !row.Accepted() {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %s", row.Line, row.Reason))
			continue
		}
		entry := row.Entry
		notes := validation.StripUnprintable(entry.Notes)
		if _, err := stmt.Exec(assetID, entry.Date.Format(utils.ISODateFormat), entry.Value, entry.InvestmentChange, notes); err != nil {
			return nil, fmt.Errorf("error inserting entry from line %d: %w", row.Line, err)
		}
		result.Imported++
	}

	if err := recomputeCurrentValue(dbTx, assetID); err != nil {
		return nil, err
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing import: %w", err)
	}

	if s.reportCache != nil {
		s.reportCache.Flush()
	}

	logger.L.Info("ProcessImport END",
		"assetID", assetID,
		"imported", result.Imported,
		"failed", result.Failed,
		"duration", time.Since(startTime))
	return result, nil
}
