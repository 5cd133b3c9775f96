package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/models"
	"github.com/username/famfolio/backend/src/utils"
)

type backupServiceImpl struct {
	db          *sql.DB
	reportCache *cache.Cache
}

func NewBackupService(db *sql.DB, reportCache *cache.Cache) BackupService {
	return &backupServiceImpl{db: db, reportCache: reportCache}
}

// Export collects the full data set as one document. It reads raw rows, not
// the derived asset views: purchase_amount here is the stored capital basis,
// so a later restore does not double-count capital movements.
func (s *backupServiceImpl) Export() (*models.BackupDocument, error) {
	doc := &models.BackupDocument{ExportedAt: time.Now().UTC()}

	peopleRows, err := s.db.Query(`SELECT id, name FROM people ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying people for export: %w", err)
	}
	defer peopleRows.Close()
	for peopleRows.Next() {
		var p models.Person
		if err := peopleRows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("error scanning person for export: %w", err)
		}
		doc.People = append(doc.People, p)
	}
	if err := peopleRows.Err(); err != nil {
		return nil, err
	}

	assetRows, err := s.db.Query(`SELECT id, name, category, person_id, purchase_date, purchase_amount, current_value FROM assets ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying assets for export: %w", err)
	}
	defer assetRows.Close()
	for assetRows.Next() {
		var a models.Asset
		var dateStr string
		if err := assetRows.Scan(&a.ID, &a.Name, &a.Category, &a.PersonID, &dateStr, &a.PurchaseAmount, &a.CurrentValue); err != nil {
			return nil, fmt.Errorf("error scanning asset for export: %w", err)
		}
		date, err := time.Parse(utils.ISODateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored purchase date %q: %w", dateStr, err)
		}
		a.PurchaseDate = date
		doc.Assets = append(doc.Assets, a)
	}
	if err := assetRows.Err(); err != nil {
		return nil, err
	}

	entryRows, err := s.db.Query(`SELECT id, asset_id, date, value, investment_change, notes FROM value_entries ORDER BY asset_id ASC, date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying entries for export: %w", err)
	}
	defer entryRows.Close()
	for entryRows.Next() {
		var e models.ValueEntry
		var dateStr string
		if err := entryRows.Scan(&e.ID, &e.AssetID, &dateStr, &e.Value, &e.InvestmentChange, &e.Notes); err != nil {
			return nil, fmt.Errorf("error scanning entry for export: %w", err)
		}
		date, err := time.Parse(utils.ISODateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored entry date %q: %w", dateStr, err)
		}
		e.Date = date
		doc.Entries = append(doc.Entries, e)
	}
	if err := entryRows.Err(); err != nil {
		return nil, err
	}

	return doc, nil
}

// Restore replaces the whole data set with the document's contents inside a
// single transaction, then recomputes every asset's derived value. A failed
// restore leaves the previous data untouched.
func (s *backupServiceImpl) Restore(doc *models.BackupDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrRestoreFailed)
	}

	// The schema's foreign keys are not enforced at runtime, so referential
	// integrity is checked here: an entry pointing at an asset the document
	// does not carry would restore as an unreachable orphan row.
	assetIDs := make(map[int64]bool, len(doc.Assets))
	for _, a := range doc.Assets {
		assetIDs[a.ID] = true
	}
	for _, e := range doc.Entries {
		if !assetIDs[e.AssetID] {
			return fmt.Errorf("%w: entry %d references unknown asset %d", ErrRestoreFailed, e.ID, e.AssetID)
		}
	}

	dbTx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("error beginning restore transaction: %w", err)
	}
	defer dbTx.Rollback()

	for _, table := range []string{"value_entries", "assets", "people"} {
		if _, err := dbTx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("%w: clearing %s: %v", ErrRestoreFailed, table, err)
		}
	}

	for _, p := range doc.People {
		if _, err := dbTx.Exec(`INSERT INTO people (id, name) VALUES (?, ?)`, p.ID, p.Name); err != nil {
			return fmt.Errorf("%w: restoring person %q: %v", ErrRestoreFailed, p.Name, err)
		}
	}
	for _, a := range doc.Assets {
		if _, err := dbTx.Exec(
			`INSERT INTO assets (id, name, category, person_id, purchase_date, purchase_amount, current_value) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, a.Category, a.PersonID, a.PurchaseDate.Format(utils.ISODateFormat), a.PurchaseAmount, a.CurrentValue,
		); err != nil {
			return fmt.Errorf("%w: restoring asset %q: %v", ErrRestoreFailed, a.Name, err)
		}
	}
	for _, e := range doc.Entries {
		if _, err := dbTx.Exec(
			`INSERT INTO value_entries (id, asset_id, date, value, investment_change, notes) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.AssetID, e.Date.Format(utils.ISODateFormat), e.Value, e.InvestmentChange, e.Notes,
		); err != nil {
			return fmt.Errorf("%w: restoring entry for asset %d: %v", ErrRestoreFailed, e.AssetID, err)
		}
	}

	for _, a := range doc.Assets {
		if err := recomputeCurrentValue(dbTx, a.ID); err != nil {
			return fmt.Errorf("%w: recomputing asset %d: %v", ErrRestoreFailed, a.ID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("error committing restore: %w", err)
	}

	if s.reportCache != nil {
		s.reportCache.Flush()
	}
	logger.L.Info("Restore complete", "people", len(doc.People), "assets", len(doc.Assets), "entries", len(doc.Entries))
	return nil
}
