package models

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// PluginConfig holds configuration for an installed plugin.
// The key is the unique slug of the plugin across all installed plugins;
// the name serves as a manual double check that the right plugin is
// referenced. Only active plugins are loaded by the registry.
type PluginConfig struct {
	// ID is the unique identifier for the plugin configuration.
	ID uint64 `gorm:"primaryKey"`
	// Key is the unique slug identifying the plugin.
	Key string `gorm:"unique;size:255;not null"`
	// Name is the human-readable plugin name (may be empty).
	Name string `gorm:"size:255"`
	// Active indicates whether the plugin should be loaded.
	Active bool `gorm:"default:false"`
	// Metadata caches plugin metadata resolved from the registry
	// (author, version, website, ...) as a JSON document.
	Metadata datatypes.JSON
	// CreatedAt is the timestamp when the configuration was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the configuration was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the PluginConfig model.
func (PluginConfig) TableName() string {
	return "plugin_configs"
}

// String returns a human-readable representation, flagging inactive plugins.
func (p *PluginConfig) String() string {
	name := fmt.Sprintf("%s - %s", p.Name, p.Key)
	if !p.Active {
		name += " (not active)"
	}

	return name
}

// PluginSetting is a single key/value setting row belonging to a plugin.
// The set of allowed keys and their defaults is not statically known;
// it is resolved at runtime from the settings the plugin declares to
// the registry. Unique per (plugin, key).
type PluginSetting struct {
	ID uint64 `gorm:"primaryKey"`
	// PluginID is the ID of the owning plugin configuration.
	PluginID uint64 `gorm:"column:plugin_id;not null;uniqueIndex:idx_plugin_key"`
	// Plugin is the owning plugin configuration (cascade delete).
	Plugin PluginConfig `gorm:"foreignKey:PluginID;constraint:OnDelete:CASCADE"`
	// Key is the setting key within the plugin's namespace.
	Key string `gorm:"size:255;not null;uniqueIndex:idx_plugin_key"`
	// Value is the setting value, stored as text and typed by the
	// setting definition.
	Value     string `gorm:"size:2000"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the PluginSetting model.
func (PluginSetting) TableName() string {
	return "plugin_settings"
}
