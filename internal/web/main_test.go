package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/config"
	notif "github.com/GoInvenTree/GoInvenTree/internal/notification"
	pluginreg "github.com/GoInvenTree/GoInvenTree/internal/plugin"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	cfg := &config.Config{
		Title: "GoInvenTree Test",
		Webserver: config.Webserver{
			Port: 8080,
		},
	}

	return New(cfg, db, pluginreg.NewRegistry(db), notif.NewStorage())
}

func checkAlive(t *testing.T, service *Service) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, CheckAlivePath, nil)

	resp, err := service.App.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode
}

// The health endpoint must observe the liveness flag of the service
// instance Start runs on, not a copy of it.
func TestCheckAliveFollowsServiceState(t *testing.T) {
	service := newTestService(t)

	assert.Equal(t, fiber.StatusServiceUnavailable, checkAlive(t, service),
		"not started yet, endpoint must fail")

	go func() { _ = service.Start("127.0.0.1:0") }()

	require.Eventually(t, func() bool {
		return service.alive.Load()
	}, 2*time.Second, 10*time.Millisecond, "Start did not mark the service alive")

	assert.Equal(t, fiber.StatusOK, checkAlive(t, service))

	// graceful shutdown marks the service not alive again
	service.alive.Store(false)
	assert.Equal(t, fiber.StatusServiceUnavailable, checkAlive(t, service))

	require.NoError(t, service.App.Shutdown())
}
