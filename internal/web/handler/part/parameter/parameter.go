// Package parameter provides handlers for the part parameter endpoints.
package parameter

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

// Path is the base path for the part parameter resource.
const Path = handler.RootPath + "part/parameters"

// Service provides CRUD operations for part parameters.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type createForm struct {
	PartID     uint64 `form:"part"     json:"part"     validate:"required,min=1"`
	TemplateID uint64 `form:"template" json:"template" validate:"required,min=1"`
	Data       string `form:"data"     json:"data"     validate:"required,max=250"`
}

type updateForm struct {
	Data string `form:"data" json:"data" validate:"required,max=250"`
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

// List returns part parameters, optionally restricted to a single part
// via the ?part query parameter.
func (s *Service) List(c *fiber.Ctx) error {
	var partID *uint64
	if c.Query("part") != "" {
		id := uint64(c.QueryInt("part"))
		partID = &id
	}

	parameters, err := parameterctl.List(s.db, partID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list part parameters")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load parameters"})
	}

	return c.JSON(fiber.Map{"results": parameters, "count": len(parameters)})
}

// Detail returns a single part parameter.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parameter ID"})
	}

	p, err := parameterctl.Get(s.db, uint64(id))
	if err != nil {
		if errors.Is(err, parameterctl.ErrParameterNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Parameter not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to load parameter")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load parameter"})
	}

	return c.JSON(p)
}

// Create attaches a parameter value to a part.
func (s *Service) Create(c *fiber.Ctx) error {
	f := new(createForm)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	p, err := parameterctl.Create(s.db, f.PartID, f.TemplateID, f.Data)
	if err != nil {
		switch {
		case errors.Is(err, parameterctl.ErrTemplateNotFound):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Parameter template not found"})
		case errors.Is(err, parameterctl.ErrParameterAlreadyExists):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Part already has a parameter for this template"})
		}

		log.Error().Err(err).Msg("failed to create parameter")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create parameter"})
	}

	log.Info().Uint64("id", p.ID).Uint64("part_id", p.PartID).Msg("part parameter created")

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update changes the value of an existing part parameter.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parameter ID"})
	}

	f := new(updateForm)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	p, err := parameterctl.Update(s.db, uint64(id), f.Data)
	if err != nil {
		if errors.Is(err, parameterctl.ErrParameterNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Parameter not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to update parameter")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update parameter"})
	}

	return c.JSON(p)
}

// Delete removes a part parameter.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid parameter ID"})
	}

	if err := parameterctl.Delete(s.db, uint64(id)); err != nil {
		if errors.Is(err, parameterctl.ErrParameterNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Parameter not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to delete parameter")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete parameter"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
