// Package template provides handlers for the part parameter template
// endpoints.
package template

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	parameterctl "github.com/GoInvenTree/GoInvenTree/internal/db/controller/parameter"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler"
)

// Path is the base path for the parameter template resource.
const Path = handler.RootPath + "part/templates"

// Service provides CRUD operations for parameter templates.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type form struct {
	Name  string `form:"name"  json:"name"  validate:"required,min=1,max=100"`
	Units string `form:"units" json:"units" validate:"max=50"`
}

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
		auth.RequirePermission(authService, auth.PermPartRead),
		s.List,
	)
	app.Post(Path,
		auth.RequirePermission(authService, auth.PermPartCreate),
		s.Create,
	)
	app.Get(Path+"/:id",
		auth.RequirePermission(authService, auth.PermPartRead),
		s.Detail,
	)
	app.Patch(Path+"/:id",
		auth.RequirePermission(authService, auth.PermPartUpdate),
		s.Update,
	)
	app.Delete(Path+"/:id",
		auth.RequirePermission(authService, auth.PermPartDelete),
		s.Delete,
	)
}

// List returns all parameter templates.
func (s *Service) List(c *fiber.Ctx) error {
	templates, err := parameterctl.GetAllTemplates(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list parameter templates")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load templates"})
	}

	return c.JSON(fiber.Map{"results": templates, "count": len(templates)})
}

// Detail returns a single parameter template.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	t, err := parameterctl.GetTemplate(s.db, uint64(id))
	if err != nil {
		if errors.Is(err, parameterctl.ErrTemplateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to load template")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load template"})
	}

	return c.JSON(t)
}

// Create creates a new parameter template. Template names are unique.
func (s *Service) Create(c *fiber.Ctx) error {
	f := new(form)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	t, err := parameterctl.CreateTemplate(s.db, f.Name, f.Units)
	if err != nil {
		if errors.Is(err, parameterctl.ErrTemplateAlreadyExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "A template with this name already exists"})
		}

		log.Error().Err(err).Msg("failed to create template")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create template"})
	}

	log.Info().Uint64("id", t.ID).Str("name", t.Name).Msg("parameter template created")

	return c.Status(fiber.StatusCreated).JSON(t)
}

// Update applies a partial update to a parameter template.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	f := new(form)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	updates := map[string]interface{}{}

	if f.Name != "" {
		updates["name"] = f.Name
	}
	if f.Units != "" {
		updates["units"] = f.Units
	}

	t, err := parameterctl.UpdateTemplate(s.db, uint64(id), updates)
	if err != nil {
		if errors.Is(err, parameterctl.ErrTemplateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to update template")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update template"})
	}

	return c.JSON(t)
}

// Delete removes a parameter template and, via the cascade constraint,
// every part parameter that references it.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	if err := parameterctl.DeleteTemplate(s.db, uint64(id)); err != nil {
		if errors.Is(err, parameterctl.ErrTemplateNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to delete template")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete template"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
