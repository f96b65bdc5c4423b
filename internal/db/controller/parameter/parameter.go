// Package parameter provides CRUD operations for part parameters and
// their templates.
package parameter

import (
	"errors"

	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
)

var (
	// ErrTemplateNotFound is returned when a parameter template is not found.
	ErrTemplateNotFound = errors.New("parameter template not found")
	// ErrTemplateNameEmpty is returned when attempting to create a template with an empty name.
	ErrTemplateNameEmpty = errors.New("template name cannot be empty")
	// ErrTemplateAlreadyExists is returned when a template with the same name already exists.
	ErrTemplateAlreadyExists = errors.New("parameter template already exists")
	// ErrParameterNotFound is returned when a part parameter is not found.
	ErrParameterNotFound = errors.New("part parameter not found")
	// ErrParameterAlreadyExists is returned when the part already has a value for the template.
	ErrParameterAlreadyExists = errors.New("part already has a parameter for this template")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// GetAllTemplates retrieves all parameter templates.
func GetAllTemplates(db *gorm.DB) ([]models.PartParameterTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var templates []models.PartParameterTemplate
	if err := db.Order("name ASC").Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

// GetTemplate retrieves a parameter template by its ID.
func GetTemplate(db *gorm.DB, id uint64) (*models.PartParameterTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var t models.PartParameterTemplate
	result := db.First(&t, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, result.Error
	}

	return &t, nil
}

// CreateTemplate creates a new parameter template.
func CreateTemplate(db *gorm.DB, name, units string) (*models.PartParameterTemplate, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrTemplateNameEmpty
	}

	var existing models.PartParameterTemplate
	result := db.Where("name = ?", name).First(&existing)
	if result.Error == nil {
		return nil, ErrTemplateAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	t := &models.PartParameterTemplate{
		Name:  name,
		Units: units,
	}

	if err := db.Create(t).Error; err != nil {
		return nil, err
	}

	return t, nil
}

// UpdateTemplate applies the given column updates to an existing template.
func UpdateTemplate(
	db *gorm.DB,
	id uint64,
	updates map[string]interface{},
) (*models.PartParameterTemplate, error) {
	t, err := GetTemplate(db, id)
	if err != nil {
		return nil, err
	}

	if err := db.Model(t).Updates(updates).Error; err != nil {
		return nil, err
	}

	return GetTemplate(db, id)
}

// DeleteTemplate deletes a parameter template by ID.
// Parameters referring to it are removed by the cascade constraint.
func DeleteTemplate(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.PartParameterTemplate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// List retrieves part parameters, optionally restricted to one part.
func List(db *gorm.DB, partID *uint64) ([]models.PartParameter, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	query := db.Model(&models.PartParameter{})
	if partID != nil {
		query = query.Where("part_id = ?", *partID)
	}

	var parameters []models.PartParameter
	if err := query.Preload("Template").Find(&parameters).Error; err != nil {
		return nil, err
	}

	return parameters, nil
}

// Get retrieves a part parameter by its ID.
func Get(db *gorm.DB, id uint64) (*models.PartParameter, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var p models.PartParameter
	result := db.Preload("Template").First(&p, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrParameterNotFound
		}
		return nil, result.Error
	}

	return &p, nil
}

// Create attaches a parameter value to a part.
// A part can carry at most one value per template.
func Create(db *gorm.DB, partID, templateID uint64, data string) (*models.PartParameter, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if _, err := GetTemplate(db, templateID); err != nil {
		return nil, err
	}

	var existing models.PartParameter
	result := db.Where("part_id = ? AND template_id = ?", partID, templateID).First(&existing)
	if result.Error == nil {
		return nil, ErrParameterAlreadyExists
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	p := &models.PartParameter{
		PartID:     partID,
		TemplateID: templateID,
		Data:       data,
	}

	if err := db.Create(p).Error; err != nil {
		return nil, err
	}

	return p, nil
}

// Update changes the value of an existing part parameter.
func Update(db *gorm.DB, id uint64, data string) (*models.PartParameter, error) {
	p, err := Get(db, id)
	if err != nil {
		return nil, err
	}

	p.Data = data
	if err := db.Save(p).Error; err != nil {
		return nil, err
	}

	return p, nil
}

// Delete deletes a part parameter by ID.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.PartParameter{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParameterNotFound
	}

	return nil
}
