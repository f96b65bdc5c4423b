package plugin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	pluginreg "github.com/GoInvenTree/GoInvenTree/internal/plugin"
)

// fakePlugin registers a key with metadata in the registry.
type fakePlugin struct{ key string }

func (p *fakePlugin) Key() string  { return p.key }
func (p *fakePlugin) Name() string { return "Plugin " + p.key }
func (p *fakePlugin) Meta() pluginreg.Meta {
	return pluginreg.Meta{Slug: p.key, HumanName: "Plugin " + p.key, Version: "1.0.0"}
}

// setupApp registers the handler routes without the auth middleware.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB, *pluginreg.Registry) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.PluginConfig{}, &models.PluginSetting{})
	require.NoError(t, err, "failed to migrate test database")

	registry := pluginreg.NewRegistry(db)
	require.NoError(t, registry.Register(&fakePlugin{key: "sample"}))

	service := &Service{
		cfg:       &config.Config{},
		db:        db,
		registry:  registry,
		validator: validator.New(),
	}

	app := fiber.New()
	app.Get(Path, service.List)
	app.Post(Path, service.Create)
	app.Get(Path+"/:id", service.Detail)
	app.Patch(Path+"/:id", service.Update)
	app.Delete(Path+"/:id", service.Delete)

	return app, db, registry
}

func TestCreateAndList(t *testing.T) {
	app, _, registry := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/plugin",
		strings.NewReader(`{"key":"sample","name":"Sample"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, true, created["registered"])

	// creating never reloads the registry
	assert.Equal(t, uint64(0), registry.ReloadCount())

	// duplicate keys are rejected
	req = httptest.NewRequest(http.MethodPost, "/admin/plugin",
		strings.NewReader(`{"key":"sample","name":"Again"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/admin/plugin", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listing map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	assert.Equal(t, float64(1), listing["count"])
}

func TestDetailUnregisteredKey(t *testing.T) {
	app, db, _ := setupApp(t)

	// a stored row without a registry entry degrades to zero metadata
	cfg := models.PluginConfig{Key: "ghost", Name: "Ghost"}
	require.NoError(t, db.Create(&cfg).Error)

	req := httptest.NewRequest(http.MethodGet, "/admin/plugin/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["registered"])

	meta, ok := body["meta"].(map[string]interface{})
	require.True(t, ok)
	assert.Empty(t, meta["slug"])
}

func TestUpdateActivationTriggersReload(t *testing.T) {
	app, db, registry := setupApp(t)

	cfg := models.PluginConfig{Key: "sample", Name: "Sample"}
	require.NoError(t, db.Create(&cfg).Error)

	// toggling active runs the reload exactly once
	req := httptest.NewRequest(http.MethodPatch, "/admin/plugin/1",
		strings.NewReader(`{"active":true}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, uint64(1), registry.ReloadCount())
	assert.True(t, registry.IsActive("sample"))

	// renaming without touching the flag does not reload
	req = httptest.NewRequest(http.MethodPatch, "/admin/plugin/1",
		strings.NewReader(`{"name":"Renamed"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, uint64(1), registry.ReloadCount())

	req = httptest.NewRequest(http.MethodPatch, "/admin/plugin/999",
		strings.NewReader(`{"active":true}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDelete(t *testing.T) {
	app, db, _ := setupApp(t)

	cfg := models.PluginConfig{Key: "sample", Name: "Sample"}
	require.NoError(t, db.Create(&cfg).Error)

	req := httptest.NewRequest(http.MethodDelete, "/admin/plugin/1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.PluginConfig{}).Count(&count).Error)
	assert.Zero(t, count)
}
