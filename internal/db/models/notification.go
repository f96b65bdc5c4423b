package models

import "time"

// NotificationUserSetting stores a per-user setting for a notification
// delivery method. Valid keys are declared by the method when it
// registers with the notification storage. Unique per (method, user, key).
type NotificationUserSetting struct {
	ID uint64 `gorm:"primaryKey"`
	// Method is the slug of the notification method (e.g. "mail").
	Method string `gorm:"size:255;not null;uniqueIndex:idx_method_user_key"`
	// UserID is the ID of the user this setting belongs to.
	UserID uint64 `gorm:"column:user_id;not null;uniqueIndex:idx_method_user_key"`
	// User is the owning user (cascade delete).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Key is the setting key within the method's namespace.
	Key string `gorm:"size:255;not null;uniqueIndex:idx_method_user_key"`
	// Value is the setting value, stored as text.
	Value     string `gorm:"size:2000"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for the NotificationUserSetting model.
func (NotificationUserSetting) TableName() string {
	return "notification_user_settings"
}
