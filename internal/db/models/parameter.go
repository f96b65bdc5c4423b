package models

import "time"

// PartParameterTemplate defines a reusable parameter field that can be
// attached to parts (e.g. "Resistance" with units "Ohm").
type PartParameterTemplate struct {
	ID uint64 `gorm:"primaryKey"`
	// Name is the unique name of the template.
	Name string `gorm:"unique;size:100;not null"`
	// Units describes the physical units for values of this parameter.
	Units     string `gorm:"size:25"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the PartParameterTemplate model.
func (PartParameterTemplate) TableName() string {
	return "part_parameter_templates"
}

// PartParameter holds a single parameter value for a part.
// A part can carry at most one value per template.
type PartParameter struct {
	ID uint64 `gorm:"primaryKey"`
	// PartID is the ID of the part this parameter belongs to.
	PartID uint64 `gorm:"column:part_id;not null;uniqueIndex:idx_part_template"`
	// Part is the associated part (cascade delete).
	Part Part `gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE"`
	// TemplateID is the ID of the parameter template.
	TemplateID uint64 `gorm:"column:template_id;not null;uniqueIndex:idx_part_template"`
	// Template is the associated parameter template.
	Template PartParameterTemplate `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	// Data is the parameter value, stored as text.
	Data      string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the PartParameter model.
func (PartParameter) TableName() string {
	return "part_parameters"
}
