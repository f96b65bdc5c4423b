// Package dashboard provides the instance overview endpoint.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	pluginreg "github.com/GoInvenTree/GoInvenTree/internal/plugin"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler"
)

// Path is the path of the dashboard endpoint.
const Path = handler.RootPath + "dashboard"

// Service provides instance-wide statistics.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	registry *pluginreg.Registry
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	registry *pluginreg.Registry,
	authService *auth.Service,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.registry = registry

	app.Get(Path,
		auth.RequirePermission(authService, auth.PermPartRead),
		s.Stats,
	)
}

// Stats returns entity counts and the plugin registry state.
func (s *Service) Stats(c *fiber.Ctx) error {
	var (
		partCount     int64
		activeParts   int64
		categoryCount int64
		pluginCount   int64
		activePlugins int64
	)

	counts := []struct {
		model interface{}
		where string
		dest  *int64
	}{
		{&models.Part{}, "", &partCount},
		{&models.Part{}, "active = ?", &activeParts},
		{&models.PartCategory{}, "", &categoryCount},
		{&models.PluginConfig{}, "", &pluginCount},
		{&models.PluginConfig{}, "active = ?", &activePlugins},
	}

	for _, count := range counts {
		query := s.db.Model(count.model)
		if count.where != "" {
			query = query.Where(count.where, true)
		}

		if err := query.Count(count.dest).Error; err != nil {
			log.Error().Err(err).Msg("failed to collect dashboard statistics")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load statistics"})
		}
	}

	registered := 0
	var reloads uint64
	if s.registry != nil {
		registered = len(s.registry.Plugins())
		reloads = s.registry.ReloadCount()
	}

	return c.JSON(fiber.Map{
		"title": s.cfg.Title,
		"parts": fiber.Map{
			"total":  partCount,
			"active": activeParts,
		},
		"categories": categoryCount,
		"plugins": fiber.Map{
			"configured": pluginCount,
			"active":     activePlugins,
			"registered": registered,
			"reloads":    reloads,
		},
	})
}
