// Package pluginsetting stores per-plugin key/value settings.
//
// The set of valid keys is not statically known: it is resolved from
// the setting definitions the plugin declares to the registry. Rows
// without a stored value fall back to the definition default.
package pluginsetting

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	"github.com/GoInvenTree/GoInvenTree/internal/plugin"
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
)

const (
	pluginKeyQueryPattern = "plugin_id = ? AND key = ?"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrRegistryNil is returned when no plugin registry is supplied.
	ErrRegistryNil = errors.New("plugin registry is nil")
	// ErrKeyEmpty is returned when the setting key is empty.
	ErrKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingNotDefined is returned when the plugin does not declare the requested setting.
	ErrSettingNotDefined = errors.New("setting not declared by plugin")
	// ErrSettingNotFound is returned when no stored row exists for the setting.
	ErrSettingNotFound = errors.New("plugin setting not found")
)

// Entry combines a setting definition with its effective value.
type Entry struct {
	Key        string              `json:"key"`
	Definition settings.Definition `json:"definition"`
	Value      string              `json:"value"`
	// Stored reports whether the value comes from a database row
	// rather than the definition default.
	Stored bool `json:"stored"`
}

// definition resolves the declared definition of a single setting key.
func definition(reg *plugin.Registry, cfg *models.PluginConfig, key string) (settings.Definition, error) {
	if reg == nil {
		return settings.Definition{}, ErrRegistryNil
	}
	if key == "" {
		return settings.Definition{}, ErrKeyEmpty
	}

	defs := reg.MixinSettings(cfg.Key)

	def, ok := defs[key]
	if !ok {
		return settings.Definition{}, ErrSettingNotDefined
	}

	return def, nil
}

// GetValue returns the effective value of a plugin setting: the stored
// row if present, the definition default otherwise.
func GetValue(db *gorm.DB, reg *plugin.Registry, cfg *models.PluginConfig, key string) (string, error) {
	if db == nil {
		return "", ErrDBNil
	}

	def, err := definition(reg, cfg, key)
	if err != nil {
		return "", err
	}

	var row models.PluginSetting
	result := db.Where(pluginKeyQueryPattern, cfg.ID, key).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return def.Default, nil
	}
	if result.Error != nil {
		return "", result.Error
	}

	return row.Value, nil
}

// SetValue validates and stores a plugin setting value (upsert).
func SetValue(
	db *gorm.DB,
	reg *plugin.Registry,
	cfg *models.PluginConfig,
	key, value string,
) (*models.PluginSetting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	def, err := definition(reg, cfg, key)
	if err != nil {
		return nil, err
	}

	if err := def.Validate(value); err != nil {
		return nil, err
	}

	var row models.PluginSetting
	result := db.Where(pluginKeyQueryPattern, cfg.ID, key).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = models.PluginSetting{
			PluginID: cfg.ID,
			Key:      key,
			Value:    value,
		}

		if err := db.Create(&row).Error; err != nil {
			return nil, err
		}

		return &row, nil
	}

	if result.Error != nil {
		return nil, result.Error
	}

	row.Value = value
	if err := db.Save(&row).Error; err != nil {
		return nil, err
	}

	return &row, nil
}

// All returns every setting the plugin declares, merged with stored values.
func All(db *gorm.DB, reg *plugin.Registry, cfg *models.PluginConfig) ([]Entry, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if reg == nil {
		return nil, ErrRegistryNil
	}

	defs := reg.MixinSettings(cfg.Key)

	var rows []models.PluginSetting
	if err := db.Where("plugin_id = ?", cfg.ID).Find(&rows).Error; err != nil {
		return nil, err
	}

	stored := make(map[string]string, len(rows))
	for i := range rows {
		stored[rows[i].Key] = rows[i].Value
	}

	entries := make([]Entry, 0, len(defs))

	for key, def := range defs {
		entry := Entry{
			Key:        key,
			Definition: def,
			Value:      def.Default,
		}

		if v, ok := stored[key]; ok {
			entry.Value = v
			entry.Stored = true
		}

		if def.Protected {
			entry.Value = ""
		}

		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	return entries, nil
}

// Delete removes the stored row for a plugin setting, reverting the
// setting to its definition default.
func Delete(db *gorm.DB, cfg *models.PluginConfig, key string) error {
	if db == nil {
		return ErrDBNil
	}
	if key == "" {
		return ErrKeyEmpty
	}

	result := db.Where(pluginKeyQueryPattern, cfg.ID, key).Delete(&models.PluginSetting{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
