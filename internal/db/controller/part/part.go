// Package part provides CRUD operations for parts.
package part

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
)

var (
	// ErrPartNotFound is returned when a part is not found.
	ErrPartNotFound = errors.New("part not found")
	// ErrPartNameEmpty is returned when attempting to create a part with an empty name.
	ErrPartNameEmpty = errors.New("part name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Filter describes the optional filters for listing parts.
type Filter struct {
	// CategoryID restricts the list to one category when non-nil.
	CategoryID *uint64
	// Search matches against name, IPN, description and keywords.
	Search string
	// Active restricts to active or inactive parts when non-nil.
	Active *bool
	// Limit and Offset paginate the result (Limit <= 0 disables pagination).
	Limit  int
	Offset int
}

// List retrieves parts matching the filter, together with the total
// count before pagination.
func List(db *gorm.DB, filter Filter) ([]models.Part, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	query := db.Model(&models.Part{})

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"name LIKE ? OR ipn LIKE ? OR description LIKE ? OR keywords LIKE ?",
			like,
			like,
			like,
			like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var parts []models.Part
	if err := query.Preload("Category").Order("name ASC").Find(&parts).Error; err != nil {
		return nil, 0, err
	}

	return parts, total, nil
}

// Get retrieves a part by its ID.
func Get(db *gorm.DB, id uint64) (*models.Part, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.Part
	result := db.Preload("Category").First(&p, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// Create creates a new part.
func Create(db *gorm.DB, p *models.Part) error {
	if db == nil {
		return ErrDBNil
	}
	if p == nil || p.Name == "" {
		return ErrPartNameEmpty
	}

	return db.Create(p).Error
}

// Update applies the given column updates to an existing part.
func Update(db *gorm.DB, id uint64, updates map[string]interface{}) (*models.Part, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	if err := db.Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete deletes a part by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Part{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPartNotFound
	}

	return nil
}
