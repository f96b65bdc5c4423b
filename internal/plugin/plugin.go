package plugin

import (
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
)

// Plugin is the interface implemented by every installable plugin.
// Plugins are in-process Go values registered with the registry at
// startup; whether a registered plugin is loaded is controlled by its
// PluginConfig row.
type Plugin interface {
	// Key returns the unique slug of the plugin.
	Key() string
	// Name returns the human-readable plugin name.
	Name() string
	// Meta returns descriptive metadata about the plugin.
	Meta() Meta
}

// SettingsMixin is implemented by plugins that declare configurable
// settings. The returned definitions are merged into the generic
// settings framework at runtime.
type SettingsMixin interface {
	// Settings returns the setting definitions declared by the plugin,
	// keyed by setting key.
	Settings() map[string]settings.Definition
}

// Meta holds descriptive plugin metadata shown to administrators.
// A plugin absent from the registry yields the zero Meta.
type Meta struct {
	Slug        string `json:"slug"`
	HumanName   string `json:"human_name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	PubDate     string `json:"pub_date"`
	Version     string `json:"version"`
	Website     string `json:"website"`
	License     string `json:"license"`
}
