// Package plugin provides handlers for the plugin administration
// endpoints. Toggling the active flag of a configuration reloads the
// plugin registry.
package plugin

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/db/controller/pluginconfig"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	pluginreg "github.com/GoInvenTree/GoInvenTree/internal/plugin"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler"
)

// Path is the base path for plugin administration.
const Path = handler.RootPath + "admin/plugin"

// Service provides CRUD operations for plugin configurations.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	registry  *pluginreg.Registry
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type createForm struct {
	Key    string `form:"key"    json:"key"    validate:"required,min=1,max=255"`
	Name   string `form:"name"   json:"name"   validate:"max=255"`
	Active bool   `form:"active" json:"active"`
}

type updateForm struct {
	Name   *string `form:"name"   json:"name"`
	Active *bool   `form:"active" json:"active"`
}

// configResponse decorates a stored configuration with the live
// registry state for its key.
type configResponse struct {
	*models.PluginConfig
	Meta       pluginreg.Meta `json:"meta"`
	Registered bool           `json:"registered"`
}

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
	s.validator = validator.New()

	app.Get(Path,
		auth.RequirePermission(authService, auth.PermAdminPlugins),
		s.List,
	)
	app.Post(Path,
		auth.RequirePermission(authService, auth.PermAdminPlugins),
		s.Create,
	)
	app.Get(Path+"/:id",
		auth.RequirePermission(authService, auth.PermAdminPlugins),
		s.Detail,
	)
	app.Patch(Path+"/:id",
		auth.RequirePermission(authService, auth.PermAdminPlugins),
		s.Update,
	)
	app.Delete(Path+"/:id",
		auth.RequirePermission(authService, auth.PermAdminPlugins),
		s.Delete,
	)
}

func (s *Service) respond(cfg *models.PluginConfig) configResponse {
	registered := false
	if s.registry != nil {
		_, registered = s.registry.Get(cfg.Key)
	}

	return configResponse{
		PluginConfig: cfg,
		Meta:         pluginconfig.Metadata(s.registry, cfg),
		Registered:   registered,
	}
}

// List returns all plugin configurations with their registry metadata.
func (s *Service) List(c *fiber.Ctx) error {
	configs, err := pluginconfig.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list plugin configurations")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load plugin configurations"})
	}

	results := make([]configResponse, 0, len(configs))
	for i := range configs {
		results = append(results, s.respond(&configs[i]))
	}

	return c.JSON(fiber.Map{"results": results, "count": len(results)})
}

// Detail returns a single plugin configuration.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid configuration ID"})
	}

	cfg, err := pluginconfig.GetByID(s.db, uint64(id))
	if err != nil {
		if errors.Is(err, pluginconfig.ErrConfigNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plugin configuration not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to load plugin configuration")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load plugin configuration"})
	}

	return c.JSON(s.respond(cfg))
}

// Create creates a plugin configuration. Keys are unique; creating a
// configuration never reloads the registry.
func (s *Service) Create(c *fiber.Ctx) error {
	f := new(createForm)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	cfg, err := pluginconfig.Create(s.db, s.registry, f.Key, f.Name, f.Active)
	if err != nil {
		if errors.Is(err, pluginconfig.ErrConfigAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A configuration with this key already exists"})
		}

		log.Error().Err(err).Str("key", f.Key).Msg("failed to create plugin configuration")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create plugin configuration"})
	}

	log.Info().Uint64("id", cfg.ID).Str("key", cfg.Key).Msg("plugin configuration created")

	return c.Status(fiber.StatusCreated).JSON(s.respond(cfg))
}

// Update applies a partial update. A change to the active flag runs
// the registry reload exactly once.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid configuration ID"})
	}

	f := new(updateForm)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	cfg, err := pluginconfig.GetByID(s.db, uint64(id))
	if err != nil {
		if errors.Is(err, pluginconfig.ErrConfigNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plugin configuration not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to load plugin configuration")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load plugin configuration"})
	}

	if f.Name != nil {
		cfg.Name = *f.Name
	}
	if f.Active != nil {
		cfg.Active = *f.Active
	}

	if err := pluginconfig.Save(s.db, s.registry, cfg, false); err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to save plugin configuration")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save plugin configuration"})
	}

	if f.Active != nil {
		log.Info().Uint64("id", cfg.ID).Str("key", cfg.Key).Bool("active", cfg.Active).
			Msg("plugin configuration activation changed")
	}

	return c.JSON(s.respond(cfg))
}

// Delete removes a plugin configuration and its stored settings.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid configuration ID"})
	}

	if err := pluginconfig.Delete(s.db, uint64(id)); err != nil {
		if errors.Is(err, pluginconfig.ErrConfigNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plugin configuration not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to delete plugin configuration")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete plugin configuration"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
