package models

import "time"

// PartCategory groups parts into a tree of categories.
// Categories may be nested via the Parent reference; top-level
// categories have a nil parent.
type PartCategory struct {
	// ID is the unique identifier for the category.
	ID uint64 `gorm:"primaryKey"`
	// Name of the category, unique among siblings of the same parent.
	Name string `gorm:"size:100;not null;uniqueIndex:idx_category_parent_name"`
	// Description provides a human-readable description of the category.
	Description string `gorm:"size:250"`
	// ParentID is the ID of the parent category (nil for top-level categories).
	ParentID *uint64 `gorm:"column:parent_id;uniqueIndex:idx_category_parent_name"`
	// Parent is the associated parent category.
	Parent *PartCategory `gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
	// CreatedAt is the timestamp when the category was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the category was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the PartCategory model.
func (PartCategory) TableName() string {
	return "part_categories"
}

// Part represents a single part in the inventory.
type Part struct {
	// ID is the unique identifier for the part.
	ID uint64 `gorm:"primaryKey"`
	// Name is the display name of the part.
	Name string `gorm:"size:100;not null"`
	// IPN is the internal part number.
	IPN string `gorm:"column:ipn;size:100;index"`
	// Description provides a human-readable description of the part.
	Description string `gorm:"size:250"`
	// Keywords improve part searchability.
	Keywords string `gorm:"size:250"`
	// CategoryID is the ID of the category this part belongs to (nil if uncategorized).
	CategoryID *uint64 `gorm:"column:category_id"`
	// Category is the associated part category.
	Category *PartCategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	// Active indicates whether the part is available for use.
	Active bool `gorm:"default:true"`
	// CreatedAt is the timestamp when the part was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the part was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Part model.
func (Part) TableName() string {
	return "parts"
}
