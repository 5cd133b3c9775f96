package services

import (
	"strings"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/famfolio/backend/src/parsers"
)

func newTestImportService(t *testing.T) (ImportService, AssetService) {
	t.Helper()
	db := newTestDB(t)
	reportCache := cache.New(time.Minute, time.Minute)
	assets := NewAssetService(db, reportCache)
	imports := NewImportService(db, parsers.NewSnapshotCSVParser(), reportCache)
	return imports, assets
}

func TestProcessImport(t *testing.T) {
	imports, assets := newTestImportService(t)
	asset := seedAsset(t, assets, "Savings", 5000)

	csv := "Date,Value,InvestmentChange,Notes\n" +
		`2024-01-15,10000,5000,"Initial deposit"` + "\n" +
		`15/02/2024,10500,0,"Monthly update"` + "\n" +
		"bad-date,100,0,\n" +
		"2024-03-15,0,0,\n"

	result, err := imports.ProcessImport(strings.NewReader(csv), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "line 4")
	assert.Contains(t, result.Errors[1], "line 5")

	entries, err := assets.ListEntries(asset.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Date.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Initial deposit", entries[0].Notes)
	assert.True(t, entries[1].Date.Equal(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)))

	loaded, err := assets.GetAsset(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 10500.0, loaded.CurrentValue)
	assert.Equal(t, 10000.0, loaded.PurchaseAmount)
}

func TestProcessImportUnknownAsset(t *testing.T) {
	imports, _ := newTestImportService(t)
	_, err := imports.ProcessImport(strings.NewReader("2024-01-15,100,0\n"), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProcessImportReplacesSameDate(t *testing.T) {
	imports, assets := newTestImportService(t)
	asset := seedAsset(t, assets, "Savings", 1000)

	_, err := imports.ProcessImport(strings.NewReader("2024-01-15,1100,0,first\n"), asset.ID)
	require.NoError(t, err)
	result, err := imports.ProcessImport(strings.NewReader("2024-01-15,1150,0,second\n"), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	entries, err := assets.ListEntries(asset.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1150.0, entries[0].Value)
	assert.Equal(t, "second", entries[0].Notes)
}

func TestProcessImportAllRowsRejected(t *testing.T) {
	imports, assets := newTestImportService(t)
	asset := seedAsset(t, assets, "Savings", 1000)

	result, err := imports.ProcessImport(strings.NewReader("garbage,x,y\n"), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Failed)

	loaded, err := assets.GetAsset(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, loaded.CurrentValue)
}
