package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	pluginreg "github.com/GoInvenTree/GoInvenTree/internal/plugin"
)

func setupRegistry(t *testing.T) *pluginreg.Registry {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.PluginConfig{})
	require.NoError(t, err, "failed to migrate test database")

	return pluginreg.NewRegistry(db)
}

func TestNew(t *testing.T) {
	registry := setupRegistry(t)

	tests := []struct {
		name     string
		schedule string
		wantErr  bool
	}{
		{name: "empty schedule disables the job", schedule: ""},
		{name: "valid schedule", schedule: "@every 5m"},
		{name: "invalid schedule", schedule: "not a schedule", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Tasks: config.Tasks{PluginSyncSchedule: tt.schedule}}

			scheduler, err := New(cfg, registry)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, scheduler)

			scheduler.Start()
			scheduler.Stop()
		})
	}
}
