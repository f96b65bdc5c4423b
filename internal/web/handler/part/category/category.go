// Package category provides handlers for the part category endpoints.
package category

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	categoryctl "github.com/GoInvenTree/GoInvenTree/internal/db/controller/category"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler"
)

// Path is the base path for the part category resource.
const Path = handler.RootPath + "part/category"

// Service provides CRUD operations for part categories.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

type form struct {
	Name        string  `form:"name"        json:"name"        validate:"required,min=1,max=100"`
	Description string  `form:"description" json:"description" validate:"max=250"`
	ParentID    *uint64 `form:"parent"      json:"parent"`
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

// List returns all categories. With ?topLevel=true only categories
// without a parent are returned.
func (s *Service) List(c *fiber.Ctx) error {
	topLevelOnly := c.QueryBool("topLevel", false)

	categories, err := categoryctl.GetAll(s.db, topLevelOnly)
	if err != nil {
		log.Error().Err(err).Msg("failed to list part categories")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load categories"})
	}

	return c.JSON(fiber.Map{"results": categories, "count": len(categories)})
}

// Detail returns a single category together with its direct subcategories.
func (s *Service) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	cat, err := categoryctl.Get(s.db, uint64(id))
	if err != nil {
		if errors.Is(err, categoryctl.ErrCategoryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to load category")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load category"})
	}

	children, err := categoryctl.Children(s.db, uint64(id))
	if err != nil {
		log.Error().Err(err).Int("id", id).Msg("failed to load subcategories")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load category"})
	}

	return c.JSON(fiber.Map{"category": cat, "children": children})
}

// Create creates a new category.
func (s *Service) Create(c *fiber.Ctx) error {
	f := new(form)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	if err := s.validator.Struct(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Validation failed: " + err.Error()})
	}

	cat := &models.PartCategory{
		Name:        f.Name,
		Description: f.Description,
		ParentID:    f.ParentID,
	}

	if err := categoryctl.Create(s.db, cat); err != nil {
		if errors.Is(err, categoryctl.ErrCategoryNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Parent category not found"})
		}

		log.Error().Err(err).Msg("failed to create category")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create category"})
	}

	log.Info().Uint64("id", cat.ID).Str("name", cat.Name).Msg("part category created")

	return c.Status(fiber.StatusCreated).JSON(cat)
}

// Update applies a partial update to a category.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	f := new(form)
	if err := c.BodyParser(f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form data"})
	}

	updates := map[string]interface{}{}

	if f.Name != "" {
		updates["name"] = f.Name
	}
	if f.Description != "" {
		updates["description"] = f.Description
	}
	if f.ParentID != nil {
		updates["parent_id"] = *f.ParentID
	}

	cat, err := categoryctl.Update(s.db, uint64(id), updates)
	if err != nil {
		if errors.Is(err, categoryctl.ErrCategoryNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to update category")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update category"})
	}

	return c.JSON(cat)
}

// Delete removes a category. Categories still containing parts or
// subcategories are rejected.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid category ID"})
	}

	if err := categoryctl.Delete(s.db, uint64(id)); err != nil {
		switch {
		case errors.Is(err, categoryctl.ErrCategoryNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Category not found"})
		case errors.Is(err, categoryctl.ErrCategoryNotEmpty):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Category still contains parts or subcategories"})
		}

		log.Error().Err(err).Int("id", id).Msg("failed to delete category")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete category"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
