package services

import (
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/famfolio/backend/src/models"
)

func newTestBackupService(t *testing.T) (BackupService, AssetService) {
	t.Helper()
	db := newTestDB(t)
	reportCache := cache.New(time.Minute, time.Minute)
	return NewBackupService(db, reportCache), NewAssetService(db, reportCache)
}

func TestBackupRoundTrip(t *testing.T) {
	backups, assets := newTestBackupService(t)
	asset := seedAsset(t, assets, "ETF", 1000)

	_, err := assets.AddEntry(&models.ValueEntry{
		AssetID:          asset.ID,
		Date:             time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Value:            1600,
		InvestmentChange: 500,
		Notes:            "top-up",
	})
	require.NoError(t, err)

	doc, err := backups.Export()
	require.NoError(t, err)
	require.Len(t, doc.People, 1)
	require.Len(t, doc.Assets, 1)
	require.Len(t, doc.Entries, 1)
	// The export carries the stored capital basis, not the derived invested
	// figure, so restoring cannot double-count the capital movement.
	assert.Equal(t, 1000.0, doc.Assets[0].PurchaseAmount)

	require.NoError(t, assets.DeleteEntry(asset.ID, doc.Entries[0].ID))
	require.NoError(t, assets.DeleteAsset(asset.ID))
	require.NoError(t, assets.DeletePerson(doc.People[0].ID))

	require.NoError(t, backups.Restore(doc))

	loaded, err := assets.GetAsset(asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "ETF", loaded.Name)
	assert.Equal(t, 1600.0, loaded.CurrentValue)
	assert.Equal(t, 1500.0, loaded.PurchaseAmount)
	require.Len(t, loaded.Entries, 1)
	assert.Equal(t, "top-up", loaded.Entries[0].Notes)

	people, err := assets.ListPeople()
	require.NoError(t, err)
	require.Len(t, people, 1)
}

func TestRestoreReplacesExistingData(t *testing.T) {
	backups, assets := newTestBackupService(t)
	seedAsset(t, assets, "Old Asset", 100)

	doc := &models.BackupDocument{
		People: []models.Person{{ID: 1, Name: "Anna"}},
		Assets: []models.Asset{{
			ID: 1, Name: "Restored", Category: "cash", PersonID: 1,
			PurchaseDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), PurchaseAmount: 200,
		}},
		Entries: []models.ValueEntry{{
			ID: 1, AssetID: 1,
			Date: time.Date(2023, 7, 31, 0, 0, 0, 0, time.UTC), Value: 250,
		}},
	}
	require.NoError(t, backups.Restore(doc))

	list, err := assets.ListAssets()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Restored", list[0].Name)
	assert.Equal(t, 250.0, list[0].CurrentValue)
}

func TestRestoreRejectsOrphanEntries(t *testing.T) {
	backups, assets := newTestBackupService(t)
	kept := seedAsset(t, assets, "Kept Asset", 100)

	doc := &models.BackupDocument{
		People: []models.Person{{ID: 1, Name: "Anna"}},
		Assets: []models.Asset{{
			ID: 1, Name: "Fund", PersonID: 1,
			PurchaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), PurchaseAmount: 100,
		}},
		Entries: []models.ValueEntry{{
			ID: 1, AssetID: 99,
			Date: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), Value: 120,
		}},
	}
	assert.ErrorIs(t, backups.Restore(doc), ErrRestoreFailed)

	// A rejected restore leaves the previous data untouched.
	list, err := assets.ListAssets()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
}

func TestRestoreNilDocument(t *testing.T) {
	backups, _ := newTestBackupService(t)
	assert.ErrorIs(t, backups.Restore(nil), ErrRestoreFailed)
}
