// Package pluginconfig provides CRUD operations for plugin configurations.
//
// Saving a configuration whose active flag changed asks the plugin
// registry to reload all plugins; saves that leave the flag untouched
// never trigger a reload.
package pluginconfig

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	"github.com/GoInvenTree/GoInvenTree/internal/plugin"
)

const (
	keyQueryPattern = "key = ?"
)

var (
	// ErrConfigNotFound is returned when a plugin configuration is not found.
	ErrConfigNotFound = errors.New("plugin configuration not found")
	// ErrConfigKeyEmpty is returned when attempting to create a configuration with an empty key.
	ErrConfigKeyEmpty = errors.New("plugin key cannot be empty")
	// ErrConfigAlreadyExists is returned when a configuration with the same key already exists.
	ErrConfigAlreadyExists = errors.New("plugin configuration already exists")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a plugin configuration by its key.
func Get(db *gorm.DB, key string) (*models.PluginConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrConfigKeyEmpty
	}

	var cfg models.PluginConfig
	result := db.Where(keyQueryPattern, key).First(&cfg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, result.Error
	}

	return &cfg, nil
}

// GetByID retrieves a plugin configuration by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.PluginConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var cfg models.PluginConfig
	result := db.First(&cfg, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, result.Error
	}

	return &cfg, nil
}

// GetAll retrieves all plugin configurations.
func GetAll(db *gorm.DB) ([]models.PluginConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var configs []models.PluginConfig
	result := db.Order("key ASC").Find(&configs)
	if result.Error != nil {
		return nil, result.Error
	}

	return configs, nil
}

// Create creates a new plugin configuration.
//
// Creation never triggers a registry reload: the original activation
// state of a new record is whatever it is created with, so the active
// flag cannot have "changed". Metadata is resolved from the registry
// and degrades to empty values for unregistered keys.
func Create(db *gorm.DB, reg *plugin.Registry, key, name string, active bool) (*models.PluginConfig, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if key == "" {
		return nil, ErrConfigKeyEmpty
	}

	var existing models.PluginConfig
	result := db.Where(keyQueryPattern, key).First(&existing)
	if result.Error == nil {
		return nil, ErrConfigAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	cfg := &models.PluginConfig{
		Key:      key,
		Name:     name,
		Active:   active,
		Metadata: resolveMetadata(reg, key),
	}

	result = db.Create(cfg)
	if result.Error != nil {
		return nil, result.Error
	}

	return cfg, nil
}

// Save persists a plugin configuration.
//
// If the stored active flag differs from the one being saved, the
// registry is asked to reload all plugins exactly once. The noReload
// flag suppresses the side effect for registry-internal writes.
func Save(db *gorm.DB, reg *plugin.Registry, cfg *models.PluginConfig, noReload bool) error {
	if db == nil {
		return ErrDBNil
	}
	if cfg == nil || cfg.Key == "" {
		return ErrConfigKeyEmpty
	}

	// capture the activation state currently stored for this record
	orgActive := cfg.Active

	if cfg.ID != 0 {
		var existing models.PluginConfig

		result := db.First(&existing, cfg.ID)
		switch {
		case result.Error == nil:
			orgActive = existing.Active
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			return ErrConfigNotFound
		default:
			return result.Error
		}
	}

	if err := db.Save(cfg).Error; err != nil {
		return err
	}

	if !noReload && reg != nil && cfg.Active != orgActive {
		return reg.ReloadPlugins()
	}

	return nil
}

// SetActive updates the active flag of a plugin configuration,
// reloading the registry when the flag actually changes.
func SetActive(db *gorm.DB, reg *plugin.Registry, id uint64, active bool) (*models.PluginConfig, error) {
	cfg, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	cfg.Active = active
	if err := Save(db, reg, cfg, false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Delete deletes a plugin configuration by ID.
// Its settings rows are removed by the cascade constraint.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.PluginConfig{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConfigNotFound
	}

	return nil
}

// Metadata resolves the registry metadata for a plugin configuration.
// A key absent from the registry yields the zero Meta, never an error.
func Metadata(reg *plugin.Registry, cfg *models.PluginConfig) plugin.Meta {
	if reg == nil || cfg == nil {
		return plugin.Meta{}
	}

	return reg.Meta(cfg.Key)
}

func resolveMetadata(reg *plugin.Registry, key string) datatypes.JSON {
	if reg == nil {
		return nil
	}

	meta := reg.Meta(key)
	if meta == (plugin.Meta{}) {
		return nil
	}

	out, err := json.Marshal(meta)
	if err != nil {
		return nil
	}

	return datatypes.JSON(out)
}
