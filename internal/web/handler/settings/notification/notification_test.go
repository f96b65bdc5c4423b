package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	notif "github.com/GoInvenTree/GoInvenTree/internal/notification"
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
	"github.com/GoInvenTree/GoInvenTree/internal/web/session"
)

// fakeMethod declares a bool and an int per-user setting.
type fakeMethod struct{}

func (m *fakeMethod) Slug() string { return "mail" }

func (m *fakeMethod) UserSettings() map[string]settings.Definition {
	return map[string]settings.Definition{
		"NOTIFY": {
			Name:        "NOTIFY",
			Description: "Send notifications by mail",
			Type:        settings.TypeBool,
			Default:     "true",
		},
		"BATCH_SIZE": {
			Name:        "BATCH_SIZE",
			Description: "Notifications per digest",
			Type:        settings.TypeInt,
			Default:     "10",
		},
	}
}

// setupApp registers the handler routes and creates a session for user 1.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB, string) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.Role{}, &models.User{}, &models.NotificationUserSetting{})
	require.NoError(t, err, "failed to migrate test database")

	role := models.Role{Name: "user"}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{Username: "tester", Email: "tester@example.com", RoleID: role.ID}
	require.NoError(t, db.Create(&user).Error)

	storage := notif.NewStorage()
	require.NoError(t, storage.Register(&fakeMethod{}))

	session.Init(memory.New())

	sessionID, err := session.GenerateSessionID()
	require.NoError(t, err)

	sessionData := session.Data{User: user}
	require.NoError(t, sessionData.Write(sessionID, time.Hour))

	service := &Service{
		cfg:     &config.Config{},
		db:      db,
		storage: storage,
	}

	app := fiber.New()
	app.Get(Path, service.List)
	app.Get(Path+"/:method/:setting", service.Detail)
	app.Put(Path+"/:method/:setting", service.Set)

	return app, db, sessionID
}

func withSession(req *http.Request, sessionID string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})
	return req
}

func TestListRequiresSession(t *testing.T) {
	app, _, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodGet, "/notification/settings", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestList(t *testing.T) {
	app, db, sessionID := setupApp(t)

	row := models.NotificationUserSetting{Method: "mail", UserID: 1, Key: "BATCH_SIZE", Value: "25"}
	require.NoError(t, db.Create(&row).Error)

	// rows of other users must not leak into the listing
	other := models.NotificationUserSetting{Method: "mail", UserID: 2, Key: "BATCH_SIZE", Value: "99"}
	require.NoError(t, db.Create(&other).Error)

	req := withSession(httptest.NewRequest(http.MethodGet, "/notification/settings", nil), sessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Count   int `json:"count"`
		Results []struct {
			Method string `json:"method"`
			Key    string `json:"key"`
			Value  string `json:"value"`
		} `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Equal(t, 2, body.Count)
	assert.Equal(t, "BATCH_SIZE", body.Results[0].Key)
	assert.Equal(t, "25", body.Results[0].Value)
	assert.Equal(t, "NOTIFY", body.Results[1].Key)
	assert.Equal(t, "true", body.Results[1].Value)
}

func TestDetail(t *testing.T) {
	app, _, sessionID := setupApp(t)

	req := withSession(httptest.NewRequest(http.MethodGet, "/notification/settings/mail/NOTIFY", nil), sessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "true", body["value"])

	req = withSession(httptest.NewRequest(http.MethodGet, "/notification/settings/pager/NOTIFY", nil), sessionID)
	resp, err = app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSet(t *testing.T) {
	app, db, sessionID := setupApp(t)

	req := withSession(httptest.NewRequest(http.MethodPut, "/notification/settings/mail/NOTIFY",
		strings.NewReader(`{"value":"false"}`)), sessionID)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var row models.NotificationUserSetting
	err = db.Where("method = ? AND user_id = ? AND key = ?", "mail", 1, "NOTIFY").First(&row).Error
	require.NoError(t, err)
	assert.Equal(t, "false", row.Value)
}

func TestSetInvalidValue(t *testing.T) {
	app, db, sessionID := setupApp(t)

	req := withSession(httptest.NewRequest(http.MethodPut, "/notification/settings/mail/BATCH_SIZE",
		strings.NewReader(`{"value":"lots"}`)), sessionID)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.NotificationUserSetting{}).Count(&count).Error)
	assert.Zero(t, count, "rejected values must not be stored")
}
