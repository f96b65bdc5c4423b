// Package methods holds the notification delivery methods that ship
// with the application.
package methods

import (
	"github.com/GoInvenTree/GoInvenTree/internal/notification"
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
)

// All returns one instance of every built-in notification method.
func All() []notification.Method {
	return []notification.Method{
		&Mail{},
		&Slack{},
	}
}

// Mail delivers notifications by email.
type Mail struct{}

// Slug returns the unique slug of the method.
func (m *Mail) Slug() string { return "mail" }

// UserSettings returns the per-user setting definitions for this method.
func (m *Mail) UserSettings() map[string]settings.Definition {
	return map[string]settings.Definition{
		"NOTIFY_BY_EMAIL": {
			Name:        "Enable email notifications",
			Description: "Allow sending of notifications via email",
			Type:        settings.TypeBool,
			Default:     "true",
		},
		"DIGEST_INTERVAL": {
			Name:        "Digest interval",
			Description: "Bundle notifications into a digest sent every N minutes (0 sends immediately)",
			Type:        settings.TypeInt,
			Default:     "0",
			Units:       "min",
		},
	}
}

// Slack delivers notifications to a Slack workspace.
type Slack struct{}

// Slug returns the unique slug of the method.
func (m *Slack) Slug() string { return "slack" }

// UserSettings returns the per-user setting definitions for this method.
func (m *Slack) UserSettings() map[string]settings.Definition {
	return map[string]settings.Definition{
		"NOTIFY_BY_SLACK": {
			Name:        "Enable slack notifications",
			Description: "Allow sending of notifications to the configured Slack webhook",
			Type:        settings.TypeBool,
			Default:     "false",
		},
		"SLACK_WEBHOOK_URL": {
			Name:        "Webhook URL",
			Description: "Personal Slack webhook used for direct notifications",
			Type:        settings.TypeString,
			Default:     "",
			Protected:   true,
		},
	}
}
