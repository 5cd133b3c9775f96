package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/famfolio/backend/src/logger"
	"github.com/username/famfolio/backend/src/models"
	"github.com/username/famfolio/backend/src/utils"
)

// investedExpr exposes the capital basis plus every recorded capital
// movement as the asset's invested amount. The purchase_amount column keeps
// the creation basis untouched so edits and deletes of entries can never
// drift the figure.
const investedExpr = `a.purchase_amount + COALESCE((SELECT SUM(investment_change) FROM value_entries e WHERE e.asset_id = a.id), 0)`

type assetServiceImpl struct {
	db          *sql.DB
	reportCache *cache.Cache
}

func NewAssetService(db *sql.DB, reportCache *cache.Cache) AssetService {
	return &assetServiceImpl{db: db, reportCache: reportCache}
}

func (s *assetServiceImpl) invalidateReports() {
	if s.reportCache != nil {
		s.reportCache.Flush()
		logger.L.Debug("Report cache flushed after data mutation")
	}
}

// --- People ---

func (s *assetServiceImpl) CreatePerson(name string) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("person name must not be empty")
	}
	res, err := s.db.Exec(`INSERT INTO people (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("error inserting person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading person id: %w", err)
	}
	s.invalidateReports()
	return &models.Person{ID: id, Name: name}, nil
}

func (s *assetServiceImpl) ListPeople() ([]models.Person, error) {
	rows, err := s.db.Query(`SELECT id, name FROM people ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("error scanning person row: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *assetServiceImpl) DeletePerson(id int64) error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM assets WHERE person_id = ?`, id).Scan(&count); err != nil {
		return fmt.Errorf("error checking person usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("person %d still owns %d asset(s)", id, count)
	}
	res, err := s.db.Exec(`DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	s.invalidateReports()
	return nil
}

// --- Assets ---

func (s *assetServiceImpl) CreateAsset(asset *models.Asset) error {
	if strings.TrimSpace(asset.Name) == "" {
		return fmt.Errorf("asset name must not be empty")
	}
	// A brand-new asset has no history yet; its latest known value is what
	// was paid for it.
	res, err := s.db.Exec(
		`INSERT INTO assets (name, category, person_id, purchase_date, purchase_amount, current_value) VALUES (?, ?, ?, ?, ?, ?)`,
		asset.Name, asset.Category, asset.PersonID,
		asset.PurchaseDate.Format(utils.ISODateFormat), asset.PurchaseAmount, asset.PurchaseAmount,
	)
	if err != nil {
		return fmt.Errorf("error inserting asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading asset id: %w", err)
	}
	asset.ID = id
	asset.CurrentValue = asset.PurchaseAmount
	s.invalidateReports()
	return nil
}

func (s *assetServiceImpl) GetAsset(id int64) (*models.Asset, error) {
	row := s.db.QueryRow(
		`SELECT a.id, a.name, a.category, a.person_id, a.purchase_date, `+investedExpr+`, a.current_value FROM assets a WHERE a.id = ?`, id)
	asset, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying asset %d: %w", id, err)
	}

	entries, err := s.ListEntries(id)
	if err != nil {
		return nil, err
	}
	asset.Entries = entries
	return asset, nil
}

func (s *assetServiceImpl) ListAssets() ([]models.Asset, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.name, a.category, a.person_id, a.purchase_date, ` + investedExpr + `, a.current_value FROM assets a ORDER BY a.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning asset row: %w", err)
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

func (s *assetServiceImpl) UpdateAsset(asset *models.Asset) error {
	res, err := s.db.Exec(
		`UPDATE assets SET name = ?, category = ?, person_id = ?, purchase_date = ?, purchase_amount = ? WHERE id = ?`,
		asset.Name, asset.Category, asset.PersonID,
		asset.PurchaseDate.Format(utils.ISODateFormat), asset.PurchaseAmount, asset.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating asset %d: %w", asset.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := recomputeCurrentValue(s.db, asset.ID); err != nil {
		return err
	}
	s.invalidateReports()
	return nil
}

func (s *assetServiceImpl) DeleteAsset(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("error beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM value_entries WHERE asset_id = ?`, id); err != nil {
		return fmt.Errorf("error deleting entries for asset %d: %w", id, err)
	}
	res, err := tx.Exec(`DELETE FROM assets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting asset %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing delete: %w", err)
	}
	s.invalidateReports()
	return nil
}

// --- Value entries ---

func (s *assetServiceImpl) AddEntry(entry *models.ValueEntry) (*models.ValueEntry, error) {
	if err := s.assetExists(entry.AssetID); err != nil {
		return nil, err
	}
	// Duplicate dates are resolved here, not in the parsers: a second
	// snapshot on the same date replaces the first.
	_, err := s.db.Exec(
		`INSERT INTO value_entries (asset_id, date, value, investment_change, notes) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(asset_id, date) DO UPDATE SET value = excluded.value, investment_change = excluded.investment_change, notes = excluded.notes`,
		entry.AssetID, entry.Date.Format(utils.ISODateFormat), entry.Value, entry.InvestmentChange, entry.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("error inserting value entry: %w", err)
	}
	// last_insert_rowid is not set when the upsert takes the update branch,
	// so the row's ID is read back by its natural key.
	if err := s.db.QueryRow(
		`SELECT id FROM value_entries WHERE asset_id = ? AND date = ?`,
		entry.AssetID, entry.Date.Format(utils.ISODateFormat)).Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("error reading value entry id: %w", err)
	}
	if err := recomputeCurrentValue(s.db, entry.AssetID); err != nil {
		return nil, err
	}
	s.invalidateReports()
	return entry, nil
}

func (s *assetServiceImpl) UpdateEntry(entry *models.ValueEntry) error {
	res, err := s.db.Exec(
		`UPDATE value_entries SET date = ?, value = ?, investment_change = ?, notes = ? WHERE id = ? AND asset_id = ?`,
		entry.Date.Format(utils.ISODateFormat), entry.Value, entry.InvestmentChange, entry.Notes, entry.ID, entry.AssetID,
	)
	if err != nil {
		return fmt.Errorf("error updating value entry %d: %w", entry.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := recomputeCurrentValue(s.db, entry.AssetID); err != nil {
		return err
	}
	s.invalidateReports()
	return nil
}

func (s *assetServiceImpl) DeleteEntry(assetID, entryID int64) error {
	res, err := s.db.Exec(`DELETE FROM value_entries WHERE id = ? AND asset_id = ?`, entryID, assetID)
	if err != nil {
		return fmt.Errorf("error deleting value entry %d: %w", entryID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := recomputeCurrentValue(s.db, assetID); err != nil {
		return err
	}
	s.invalidateReports()
	return nil
}

func (s *assetServiceImpl) ListEntries(assetID int64) ([]models.ValueEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, asset_id, date, value, investment_change, notes FROM value_entries WHERE asset_id = ? ORDER BY date ASC, id ASC`, assetID)
	if err != nil {
		return nil, fmt.Errorf("error querying entries for asset %d: %w", assetID, err)
	}
	defer rows.Close()

	var entries []models.ValueEntry
	for rows.Next() {
		var e models.ValueEntry
		var dateStr string
		if err := rows.Scan(&e.ID, &e.AssetID, &dateStr, &e.Value, &e.InvestmentChange, &e.Notes); err != nil {
			return nil, fmt.Errorf("error scanning entry row: %w", err)
		}
		date, err := time.Parse(utils.ISODateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored entry date %q: %w", dateStr, err)
		}
		e.Date = date
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (*models.Asset, error) {
	var a models.Asset
	var dateStr string
	if err := row.Scan(&a.ID, &a.Name, &a.Category, &a.PersonID, &dateStr, &a.PurchaseAmount, &a.CurrentValue); err != nil {
		return nil, err
	}
	date, err := time.Parse(utils.ISODateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing stored purchase date %q: %w", dateStr, err)
	}
	a.PurchaseDate = date
	return &a, nil
}

func (s *assetServiceImpl) assetExists(id int64) error {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM assets WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("error checking asset %d: %w", id, err)
	}
	return nil
}

type execQuerier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// recomputeCurrentValue reloads the asset's current value from the most
// recent snapshot, falling back to the purchase basis when the history is
// empty. Called after every entry mutation so the stored figure never goes
// stale.
func recomputeCurrentValue(db execQuerier, assetID int64) error {
	var latest float64
	err := db.QueryRow(
		`SELECT value FROM value_entries WHERE asset_id = ? ORDER BY date DESC, id DESC LIMIT 1`, assetID).Scan(&latest)
	if err == sql.ErrNoRows {
		_, err = db.Exec(`UPDATE assets SET current_value = purchase_amount WHERE id = ?`, assetID)
		if err != nil {
			return fmt.Errorf("error resetting current value for asset %d: %w", assetID, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading latest entry for asset %d: %w", assetID, err)
	}
	if _, err := db.Exec(`UPDATE assets SET current_value = ? WHERE id = ?`, latest, assetID); err != nil {
		return fmt.Errorf("error updating current value for asset %d: %w", assetID, err)
	}
	return nil
}
