// Package category provides CRUD operations for part categories.
package category

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
)

var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("part category not found")
	// ErrCategoryNameEmpty is returned when attempting to create a category with an empty name.
	ErrCategoryNameEmpty = errors.New("category name cannot be empty")
	// ErrCategoryNotEmpty is returned when deleting a category that still has parts or children.
	ErrCategoryNotEmpty = errors.New("category still contains parts or subcategories")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetAll retrieves all categories. When topLevelOnly is set, only
// categories without a parent are returned.
func GetAll(db *gorm.DB, topLevelOnly bool) ([]models.PartCategory, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Model(&models.PartCategory{})
	if topLevelOnly {
		query = query.Where("parent_id IS NULL")
	}

	var categories []models.PartCategory
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

// Get retrieves a category by its ID.
func Get(db *gorm.DB, id uint64) (*models.PartCategory, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.PartCategory
	result := db.Preload("Parent").First(&c, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}

	return &c, nil
}

// Children retrieves the direct subcategories of a category.
func Children(db *gorm.DB, id uint64) ([]models.PartCategory, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var categories []models.PartCategory
	if err := db.Where("parent_id = ?", id).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}

	return categories, nil
}

// Create creates a new category.
func Create(db *gorm.DB, c *models.PartCategory) error {
	if db == nil {
		return ErrDBNil
	}
	if c == nil || c.Name == "" {
		return ErrCategoryNameEmpty
	}

	if c.ParentID != nil {
		if _, err := Get(db, *c.ParentID); err != nil {
			return err
		}
	}

	return db.Create(c).Error
}

// Update applies the given column updates to an existing category.
func Update(db *gorm.DB, id uint64, updates map[string]interface{}) (*models.PartCategory, error) {
	c, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if err := db.Model(c).Updates(updates).Error; err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete deletes a category by ID. Categories that still contain parts
// or subcategories cannot be deleted.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	var partCount int64
	if err := db.Model(&models.Part{}).Where("category_id = ?", id).Count(&partCount).Error; err != nil {
		return err
	}

	var childCount int64
	if err := db.Model(&models.PartCategory{}).Where("parent_id = ?", id).Count(&childCount).Error; err != nil {
		return err
	}

	if partCount > 0 || childCount > 0 {
		return ErrCategoryNotEmpty
	}

	result := db.Delete(&models.PartCategory{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
