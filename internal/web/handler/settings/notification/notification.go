// Package notification provides handlers for the per-user notification
// settings. All routes are scoped to the session user; valid keys are
// resolved from the notification method storage at request time.
package notification

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/db/controller/notificationsetting"
	notif "github.com/GoInvenTree/GoInvenTree/internal/notification"
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler"
)

// Path is the base path for the notification settings resource.
const Path = handler.RootPath + "notification/settings"

// Service provides access to per-user notification settings.
type Service struct {
	handler.Service
	cfg     *config.Config
	db      *gorm.DB
	storage *notif.Storage
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
	storage *notif.Storage,
	authService *auth.Service,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.storage = storage

	// any authenticated user manages their own notification settings
	app.Get(Path, s.List)
	app.Get(Path+"/:method/:setting", s.Detail)
	app.Put(Path+"/:method/:setting", s.Set)
}

// List returns every notification setting declared by every registered
// method, merged with the session user's stored values.
func (s *Service) List(c *fiber.Ctx) error {
	userID := auth.CurrentUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	entries, err := notificationsetting.All(s.db, s.storage, userID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("failed to load notification settings")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load notification settings"})
	}

	return c.JSON(fiber.Map{"results": entries, "count": len(entries)})
}

// Detail returns the effective value of one notification setting for
// the session user.
func (s *Service) Detail(c *fiber.Ctx) error {
	userID := auth.CurrentUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	method := c.Params("method")
	key := c.Params("setting")

	value, err := notificationsetting.GetValue(s.db, s.storage, method, userID, key)
	if err != nil {
		if errors.Is(err, notificationsetting.ErrSettingNotDefined) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Setting not declared by notification method"})
		}

		log.Error().Err(err).Str("method", method).Str("setting", key).
			Msg("failed to load notification setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load notification setting"})
	}

	return c.JSON(fiber.Map{"method": method, "key": key, "value": value})
}

// Set validates and stores a notification setting value for the
// session user.
func (s *Service) Set(c *fiber.Ctx) error {
	userID := auth.CurrentUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	method := c.Params("method")
	key := c.Params("setting")

	f := new(valueForm)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	row, err := notificationsetting.SetValue(s.db, s.storage, method, userID, key, f.Value)
	if err != nil {
		switch {
		case errors.Is(err, notificationsetting.ErrSettingNotDefined):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Setting not declared by notification method"})
		case errors.Is(err, settings.ErrValueNotBool),
			errors.Is(err, settings.ErrValueNotInt),
			errors.Is(err, settings.ErrValueNotChoice):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid value: " + err.Error()})
		}

		log.Error().Err(err).Str("method", method).Str("setting", key).
			Msg("failed to store notification setting")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store notification setting"})
	}

	log.Info().Str("method", method).Str("setting", key).Uint64("user_id", userID).
		Msg("notification setting updated")

	return c.JSON(fiber.Map{"method": row.Method, "key": row.Key, "value": row.Value})
}
