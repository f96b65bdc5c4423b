// Package plugin provides handlers for reading and writing the
// settings a plugin declares. Valid setting keys are resolved from the
// plugin registry at request time.
package plugin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/db/controller/pluginconfig"
	"github.com/GoInvenTree/GoInvenTree/internal/db/controller/pluginsetting"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	pluginreg "github.com/GoInvenTree/GoInvenTree/internal/plugin"
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler"
)

// Path is the base path for the plugin settings resource.
const Path = handler.RootPath + "plugin/:key/settings"

// Service provides access to per-plugin settings.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	registry *pluginreg.Registry
}

// Handler is the exported instance.
var Handler = Service{}

type valueForm struct {
	Value string `form:"value" json:"value"`
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

	app.Get(Path,
		auth.RequirePermission(authService, auth.PermPluginRead),
		s.List,
	)
	app.Get(Path+"/:setting",
		auth.RequirePermission(authService, auth.PermPluginRead),
		s.Detail,
	)
	app.Put(Path+"/:setting",
		auth.RequirePermission(authService, auth.PermPluginUpdate),
		s.Set,
	)
	app.Delete(Path+"/:setting",
		auth.RequirePermission(authService, auth.PermPluginUpdate),
		s.Reset,
	)
}

// loadConfig resolves the plugin configuration for the :key parameter.
func (s *Service) loadConfig(c *fiber.Ctx) (*models.PluginConfig, error) {
	key := c.Params("key")

	cfg, err := pluginconfig.Get(s.db, key)
	if err != nil {
		if errors.Is(err, pluginconfig.ErrConfigNotFound) || errors.Is(err, pluginconfig.ErrConfigKeyEmpty) {
			return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Plugin not found"})
		}

		log.Error().Err(err).Str("key", key).Msg("failed to load plugin configuration")

		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load plugin"})
	}

	return cfg, nil
}

// List returns every setting the plugin declares, merged with stored
// values. Protected values are blanked.
func (s *Service) List(c *fiber.Ctx) error {
	cfg, err := s.loadConfig(c)
	if cfg == nil {
		return err
	}

	entries, err := pluginsetting.All(s.db, s.registry, cfg)
	if err != nil {
		log.Error().Err(err).Str("key", cfg.Key).Msg("failed to load plugin settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load plugin settings"})
	}

	return c.JSON(fiber.Map{"plugin": cfg.Key, "results": entries, "count": len(entries)})
}

// Detail returns the effective value of a single plugin setting.
func (s *Service) Detail(c *fiber.Ctx) error {
	cfg, err := s.loadConfig(c)
	if cfg == nil {
		return err
	}

	key := c.Params("setting")

	value, err := pluginsetting.GetValue(s.db, s.registry, cfg, key)
	if err != nil {
		if errors.Is(err, pluginsetting.ErrSettingNotDefined) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Setting not declared by plugin"})
		}

		log.Error().Err(err).Str("plugin", cfg.Key).Str("setting", key).Msg("failed to load plugin setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load plugin setting"})
	}

	return c.JSON(fiber.Map{"plugin": cfg.Key, "key": key, "value": value})
}

// Set validates and stores a plugin setting value.
func (s *Service) Set(c *fiber.Ctx) error {
	cfg, err := s.loadConfig(c)
	if cfg == nil {
		return err
	}

	key := c.Params("setting")

	f := new(valueForm)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	row, err := pluginsetting.SetValue(s.db, s.registry, cfg, key, f.Value)
	if err != nil {
		switch {
		case errors.Is(err, pluginsetting.ErrSettingNotDefined):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Setting not declared by plugin"})
		case errors.Is(err, settings.ErrValueNotBool),
			errors.Is(err, settings.ErrValueNotInt),
			errors.Is(err, settings.ErrValueNotChoice):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid value: " + err.Error()})
		}

		log.Error().Err(err).Str("plugin", cfg.Key).Str("setting", key).Msg("failed to store plugin setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store plugin setting"})
	}

	log.Info().Str("plugin", cfg.Key).Str("setting", key).Msg("plugin setting updated")

	return c.JSON(fiber.Map{"plugin": cfg.Key, "key": row.Key, "value": row.Value})
}

// Reset removes the stored value of a plugin setting, reverting it to
// the declared default.
func (s *Service) Reset(c *fiber.Ctx) error {
	cfg, err := s.loadConfig(c)
	if cfg == nil {
		return err
	}

	key := c.Params("setting")

	if err := pluginsetting.Delete(s.db, cfg, key); err != nil {
		if errors.Is(err, pluginsetting.ErrSettingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No stored value for this setting"})
		}

		log.Error().Err(err).Str("plugin", cfg.Key).Str("setting", key).Msg("failed to reset plugin setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to reset plugin setting"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
