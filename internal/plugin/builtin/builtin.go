// Package builtin holds the plugins that ship with the application.
package builtin

import (
	"github.com/GoInvenTree/GoInvenTree/internal/plugin"
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
)

// All returns one instance of every built-in plugin.
func All() []plugin.Plugin {
	return []plugin.Plugin{
		&Barcode{},
		&CoreNotifications{},
	}
}

// Barcode provides barcode scanning support for parts.
type Barcode struct{}

// Key returns the unique slug of the plugin.
func (p *Barcode) Key() string { return "barcode" }

// Name returns the human-readable plugin name.
func (p *Barcode) Name() string { return "Barcode Support" }

// Meta returns descriptive metadata about the plugin.
func (p *Barcode) Meta() plugin.Meta {
	return plugin.Meta{
		Slug:        p.Key(),
		HumanName:   p.Name(),
		Description: "Scan and generate barcodes for parts",
		Author:      "GoInvenTree",
		Version:     "1.0.0",
		License:     "MIT",
	}
}

// Settings returns the setting definitions declared by the plugin.
func (p *Barcode) Settings() map[string]settings.Definition {
	return map[string]settings.Definition{
		"BARCODE_FORMAT": {
			Name:        "Barcode Format",
			Description: "Format used when generating part barcodes",
			Type:        settings.TypeChoice,
			Default:     "qr",
			Choices:     []string{"qr", "code128", "datamatrix"},
		},
		"BARCODE_SCAN_TIMEOUT": {
			Name:        "Scan Timeout",
			Description: "Seconds to wait for a scanner response",
			Type:        settings.TypeInt,
			Default:     "5",
			Units:       "s",
		},
	}
}

// CoreNotifications delivers system notifications to users.
type CoreNotifications struct{}

// Key returns the unique slug of the plugin.
func (p *CoreNotifications) Key() string { return "corenotifications" }

// Name returns the human-readable plugin name.
func (p *CoreNotifications) Name() string { return "Core Notifications" }

// Meta returns descriptive metadata about the plugin.
func (p *CoreNotifications) Meta() plugin.Meta {
	return plugin.Meta{
		Slug:        p.Key(),
		HumanName:   p.Name(),
		Description: "Deliver system notifications to users",
		Author:      "GoInvenTree",
		Version:     "1.0.0",
		License:     "MIT",
	}
}

// Settings returns the setting definitions declared by the plugin.
func (p *CoreNotifications) Settings() map[string]settings.Definition {
	return map[string]settings.Definition{
		"ENABLE_NOTIFICATIONS": {
			Name:        "Enable Notifications",
			Description: "Allow this plugin to deliver notifications",
			Type:        settings.TypeBool,
			Default:     "true",
		},
	}
}
