package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/controller/setting"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Setting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func TestDefaults(t *testing.T) {
	defaults := Defaults()

	assert.Equal(t, "GoInvenTree", defaults.InstanceName)
	assert.True(t, defaults.PartsCopyable)
}

func TestSaveLoadRoundtrip(t *testing.T) {
	db := setupTestDB(t)

	saved := Settings{
		InstanceName: "Lab Inventory",
		BaseURL:      "https://inventory.example.com",
		CompanyName:  "ACME",
		DefaultUnits: "pcs",
	}
	require.NoError(t, saved.Save(db))

	var loaded Settings
	require.NoError(t, loaded.Load(db))
	assert.Equal(t, saved, loaded)

	// saving again overwrites the stored blob
	saved.CompanyName = "ACME Labs"
	require.NoError(t, saved.Save(db))

	require.NoError(t, loaded.Load(db))
	assert.Equal(t, "ACME Labs", loaded.CompanyName)
}

func TestLoadMissing(t *testing.T) {
	db := setupTestDB(t)

	var s Settings
	require.ErrorIs(t, s.Load(db), setting.ErrSettingNotFound)
}
