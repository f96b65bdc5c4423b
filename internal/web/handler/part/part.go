// Package part provides handlers for the part list and detail endpoints.
package part

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	partctl "github.com/GoInvenTree/GoInvenTree/internal/db/controller/part"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler"
)

const (
	// Path is the base path for the part resource.
	Path = handler.RootPath + "part"

	// DefaultPageSize for pagination.
	DefaultPageSize = 25

	// MaxPageSize bounds client supplied page sizes.
	MaxPageSize = 100
)

// Service provides CRUD operations for parts.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// form is the request body for creating and updating parts.
type form struct {
	Name        string  `form:"name"        json:"name"        validate:"required,min=1,max=100"`
	IPN         string  `form:"ipn"         json:"ipn"         validate:"max=100"`
	Description string  `form:"description" json:"description" validate:"max=250"`
	Keywords    string  `form:"keywords"    json:"keywords"    validate:"max=250"`
	CategoryID  *uint64 `form:"category"    json:"category"`
	Active      *bool   `form:"active"      json:"active"`
}

// Init registers routes.
// The part list and detail routes must be registered after the more
// specific /part/category, /part/parameters and /part/templates routes.
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

// List returns parts with optional filters and pagination.
func (s *Service) List(c *fiber.Ctx) error {
	filter := partctl.Filter{
		Search: c.Query("search", ""),
	}

	if c.Query("category") != "" {
		categoryID := uint64(c.QueryInt("category"))
		filter.CategoryID = &categoryID
	}

	if c.Query("active") != "" {
		active := c.QueryBool("active")
		filter.Active = &active
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := c.QueryInt("pageSize", DefaultPageSize)
	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	parts, total, err := partctl.List(s.db, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to list parts")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load parts"})
	}

	return c.JSON(fiber.Map{
		"results":  parts,
		"count":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// Detail returns a single part.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid part ID"})
	}

	p, err := partctl.Get(s.db, uint64(id))
	if err != nil {
		if errors.Is(err, partctl.ErrPartNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Part not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to load part")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load part"})
	}

	return c.JSON(p)
}

// Create creates a new part.
func (s *Service) Create(c *fiber.Ctx) error {
	f := new(form)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	p := &models.Part{
		Name:        f.Name,
		IPN:         f.IPN,
		Description: f.Description,
		Keywords:    f.Keywords,
		CategoryID:  f.CategoryID,
		Active:      true,
	}

	if f.Active != nil {
		p.Active = *f.Active
	}

	if err := partctl.Create(s.db, p); err != nil {
		log.Error().Err(err).Msg("failed to create part")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create part"})
	}

	log.Info().Uint64("id", p.ID).Str("name", p.Name).Msg("part created")

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update applies a partial update to a part.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid part ID"})
	}

	f := new(form)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	updates := map[string]interface{}{}

	if f.Name != "" {
		updates["name"] = f.Name
	}
	if f.IPN != "" {
		updates["ipn"] = f.IPN
	}
	if f.Description != "" {
		updates["description"] = f.Description
	}
	if f.Keywords != "" {
		updates["keywords"] = f.Keywords
	}
	if f.CategoryID != nil {
		updates["category_id"] = *f.CategoryID
	}
	if f.Active != nil {
		updates["active"] = *f.Active
	}

	p, err := partctl.Update(s.db, uint64(id), updates)
	if err != nil {
		if errors.Is(err, partctl.ErrPartNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Part not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to update part")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update part"})
	}

	return c.JSON(p)
}

// Delete removes a part.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid part ID"})
	}

	if err := partctl.Delete(s.db, uint64(id)); err != nil {
		if errors.Is(err, partctl.ErrPartNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Part not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to delete part")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete part"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
