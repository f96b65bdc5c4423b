// Package instance provides handlers for the instance-wide settings
// managed by administrators at runtime.
package instance

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	instancectl "github.com/GoInvenTree/GoInvenTree/internal/db/controller/instance"
	"github.com/GoInvenTree/GoInvenTree/internal/db/controller/setting"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler"
)

// Path is the base path for the instance settings resource.
const Path = handler.RootPath + "admin/instance"

// Service provides access to the instance settings blob.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	app.Get(Path,
		auth.RequirePermission(authService, auth.PermAdminSettings),
		s.Get,
	)
	app.Put(Path,
		auth.RequirePermission(authService, auth.PermAdminSettings),
		s.Put,
	)
}

// Get returns the stored instance settings. When nothing was stored
// yet, the defaults are returned.
func (s *Service) Get(c *fiber.Ctx) error {
	instanceSettings := instancectl.Defaults()

	if err := instanceSettings.Load(s.db); err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
		log.Error().Err(err).Msg("failed to load instance settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load instance settings"})
	}

	return c.JSON(instanceSettings)
}

// Put replaces the stored instance settings.
func (s *Service) Put(c *fiber.Ctx) error {
	instanceSettings := new(instancectl.Settings)
	if err := c.BodyParser(instanceSettings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(instanceSettings); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	if err := instanceSettings.Save(s.db); err != nil {
		log.Error().Err(err).Msg("failed to save instance settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save instance settings"})
	}

	log.Info().Str("instance_name", instanceSettings.InstanceName).Msg("instance settings updated")

	return c.JSON(instanceSettings)
}
