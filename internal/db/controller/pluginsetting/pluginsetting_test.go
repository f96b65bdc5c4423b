package pluginsetting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	"github.com/GoInvenTree/GoInvenTree/internal/plugin"
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.PluginConfig{}, &models.PluginSetting{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

// fakePlugin declares a small set of typed settings.
type fakePlugin struct{}

func (p *fakePlugin) Key() string  { return "sample" }
func (p *fakePlugin) Name() string { return "Sample" }
func (p *fakePlugin) Meta() plugin.Meta {
	return plugin.Meta{Slug: "sample", HumanName: "Sample"}
}

func (p *fakePlugin) Settings() map[string]settings.Definition {
	return map[string]settings.Definition{
		"API_KEY": {
			Name:      "API Key",
			Type:      settings.TypeString,
			Protected: true,
		},
		"ENABLED": {
			Name:    "Enabled",
			Type:    settings.TypeBool,
			Default: "true",
		},
		"POLL_INTERVAL": {
			Name:    "Poll Interval",
			Type:    settings.TypeInt,
			Default: "60",
			Units:   "s",
		},
	}
}

func setup(t *testing.T) (*gorm.DB, *plugin.Registry, *models.PluginConfig) {
	t.Helper()

	db := setupTestDB(t)

	reg := plugin.NewRegistry(db)
	require.NoError(t, reg.Register(&fakePlugin{}))

	cfg := &models.PluginConfig{Key: "sample", Name: "Sample", Active: true}
	require.NoError(t, db.Create(cfg).Error)

	return db, reg, cfg
}

func TestGetValueDefault(t *testing.T) {
	db, reg, cfg := setup(t)

	// no stored row falls back to the definition default
	value, err := GetValue(db, reg, cfg, "ENABLED")
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	_, err = GetValue(db, reg, cfg, "UNDECLARED")
	require.ErrorIs(t, err, ErrSettingNotDefined)

	_, err = GetValue(db, reg, cfg, "")
	require.ErrorIs(t, err, ErrKeyEmpty)

	_, err = GetValue(db, nil, cfg, "ENABLED")
	require.ErrorIs(t, err, ErrRegistryNil)

	_, err = GetValue(nil, reg, cfg, "ENABLED")
	require.ErrorIs(t, err, ErrDBNil)
}

func TestSetValue(t *testing.T) {
	db, reg, cfg := setup(t)

	row, err := SetValue(db, reg, cfg, "POLL_INTERVAL", "120")
	require.NoError(t, err)
	assert.Equal(t, cfg.ID, row.PluginID)

	value, err := GetValue(db, reg, cfg, "POLL_INTERVAL")
	require.NoError(t, err)
	assert.Equal(t, "120", value)

	// upsert keeps one row per (plugin, key)
	_, err = SetValue(db, reg, cfg, "POLL_INTERVAL", "300")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.PluginSetting{}).
		Where("plugin_id = ? AND key = ?", cfg.ID, "POLL_INTERVAL").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	value, err = GetValue(db, reg, cfg, "POLL_INTERVAL")
	require.NoError(t, err)
	assert.Equal(t, "300", value)
}

func TestSetValueValidation(t *testing.T) {
	db, reg, cfg := setup(t)

	_, err := SetValue(db, reg, cfg, "POLL_INTERVAL", "soon")
	require.ErrorIs(t, err, settings.ErrValueNotInt)

	_, err = SetValue(db, reg, cfg, "ENABLED", "perhaps")
	require.ErrorIs(t, err, settings.ErrValueNotBool)

	_, err = SetValue(db, reg, cfg, "UNDECLARED", "x")
	require.ErrorIs(t, err, ErrSettingNotDefined)

	// nothing was stored by the failed writes
	var count int64
	require.NoError(t, db.Model(&models.PluginSetting{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAll(t *testing.T) {
	db, reg, cfg := setup(t)

	_, err := SetValue(db, reg, cfg, "API_KEY", "s3cret")
	require.NoError(t, err)
	_, err = SetValue(db, reg, cfg, "POLL_INTERVAL", "120")
	require.NoError(t, err)

	entries, err := All(db, reg, cfg)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// sorted by key: API_KEY, ENABLED, POLL_INTERVAL
	assert.Equal(t, "API_KEY", entries[0].Key)
	assert.True(t, entries[0].Stored)
	// protected values are blanked in listings
	assert.Empty(t, entries[0].Value)

	assert.Equal(t, "ENABLED", entries[1].Key)
	assert.False(t, entries[1].Stored)
	assert.Equal(t, "true", entries[1].Value)

	assert.Equal(t, "POLL_INTERVAL", entries[2].Key)
	assert.True(t, entries[2].Stored)
	assert.Equal(t, "120", entries[2].Value)
}

func TestAllUnregisteredPlugin(t *testing.T) {
	db, reg, _ := setup(t)

	// a config row whose plugin is gone declares no settings
	ghost := &models.PluginConfig{Key: "ghost"}
	require.NoError(t, db.Create(ghost).Error)

	entries, err := All(db, reg, ghost)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDelete(t *testing.T) {
	db, reg, cfg := setup(t)

	_, err := SetValue(db, reg, cfg, "ENABLED", "false")
	require.NoError(t, err)

	require.NoError(t, Delete(db, cfg, "ENABLED"))

	// value reverts to the default
	value, err := GetValue(db, reg, cfg, "ENABLED")
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	require.ErrorIs(t, Delete(db, cfg, "ENABLED"), ErrSettingNotFound)
	require.ErrorIs(t, Delete(db, cfg, ""), ErrKeyEmpty)
}
