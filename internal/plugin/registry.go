// Package plugin implements the process-wide plugin registry.
// The registry maps plugin keys to registered plugin instances and
// keeps the stored PluginConfig rows in sync with the set of
// registered plugins. Behavior that depends on a specific plugin
// (metadata, declared settings) is resolved here at runtime.
package plugin

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
)

// Registry is the process-wide lookup of installed plugin instances by key.
type Registry struct {
	mu      sync.RWMutex
	db      *gorm.DB
	plugins map[string]Plugin
	active  map[string]bool
	reloads uint64
}

// NewRegistry creates a new, empty plugin registry backed by the given database.
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{
		db:      db,
		plugins: make(map[string]Plugin),
		active:  make(map[string]bool),
	}
}

// Register adds a plugin instance to the registry.
// The plugin key must be unique across all registered plugins.
func (r *Registry) Register(p Plugin) error {
	if p == nil || p.Key() == "" {
		return ErrPluginKeyEmpty
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[p.Key()]; exists {
		return ErrPluginAlreadyRegistered
	}

	r.plugins[p.Key()] = p

	return nil
}

// Plugins returns a copy of the key to plugin instance mapping.
func (r *Registry) Plugins() map[string]Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Plugin, len(r.plugins))
	for k, v := range r.plugins {
		out[k] = v
	}

	return out
}

// Get returns the registered plugin for the given key.
func (r *Registry) Get(key string) (Plugin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.plugins[key]

	return p, ok
}

// Meta returns the metadata of the plugin with the given key.
// A plugin absent from the registry yields the zero Meta, never an error.
func (r *Registry) Meta(key string) Meta {
	p, ok := r.Get(key)
	if !ok {
		return Meta{}
	}

	return p.Meta()
}

// MixinSettings returns the setting definitions declared by the plugin
// with the given key. Plugins without a settings mixin, and keys absent
// from the registry, yield an empty map.
func (r *Registry) MixinSettings(key string) map[string]settings.Definition {
	p, ok := r.Get(key)
	if !ok {
		return map[string]settings.Definition{}
	}

	mixin, ok := p.(SettingsMixin)
	if !ok {
		return map[string]settings.Definition{}
	}

	return mixin.Settings()
}

// IsActive reports whether the plugin with the given key was active at
// the time of the last reload.
func (r *Registry) IsActive(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active[key]
}

// ReloadCount returns how many reloads have been performed.
func (r *Registry) ReloadCount() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.reloads
}

// ReloadPlugins re-synchronizes the registry with the stored plugin
// configurations: every registered plugin gets a PluginConfig row
// (created inactive if missing, metadata refreshed otherwise) and the
// activation state is re-read from the database.
func (r *Registry) ReloadPlugins() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return ErrRegistryDBNil
	}

	for key, p := range r.plugins {
		if err := r.syncConfig(key, p); err != nil {
			return err
		}
	}

	// re-read activation state
	var configs []models.PluginConfig
	if err := r.db.Find(&configs).Error; err != nil {
		return err
	}

	active := make(map[string]bool, len(configs))
	for i := range configs {
		active[configs[i].Key] = configs[i].Active
	}

	r.active = active
	r.reloads++

	log.Info().Int("plugins", len(r.plugins)).Msg("plugin registry reloaded")

	return nil
}

// syncConfig ensures a PluginConfig row exists for the registered
// plugin and carries current name and metadata. Rows are written
// directly so a reload never re-triggers itself. Caller holds r.mu.
func (r *Registry) syncConfig(key string, p Plugin) error {
	meta, err := json.Marshal(p.Meta())
	if err != nil {
		return err
	}

	var cfg models.PluginConfig

	result := r.db.Where("key = ?", key).First(&cfg)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		// discovered plugin: create the config row, inactive
		return r.db.Create(&models.PluginConfig{
			Key:      key,
			Name:     p.Name(),
			Active:   false,
			Metadata: datatypes.JSON(meta),
		}).Error
	}

	if result.Error != nil {
		return result.Error
	}

	return r.db.Model(&cfg).Updates(map[string]interface{}{
		"name":     p.Name(),
		"metadata": datatypes.JSON(meta),
	}).Error
}
