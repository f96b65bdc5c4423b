// Package notificationsetting stores per-user settings for
// notification delivery methods. Valid keys are resolved from the
// definitions each method registers with the notification storage.
package notificationsetting

import (
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	"github.com/GoInvenTree/GoInvenTree/internal/notification"
	"github.com/GoInvenTree/GoInvenTree/internal/settings"
)

const (
	methodUserKeyQueryPattern = "method = ? AND user_id = ? AND key = ?"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrStorageNil is returned when no notification storage is supplied.
	ErrStorageNil = errors.New("notification storage is nil")
	// ErrKeyEmpty is returned when the setting key is empty.
	ErrKeyEmpty = errors.New("setting key cannot be empty")
	// ErrSettingNotDefined is returned when the method does not declare the requested setting.
	ErrSettingNotDefined = errors.New("setting not declared by notification method")
)

// Entry combines a setting definition with its effective value.
type Entry struct {
	Method     string              `json:"method"`
	Key        string              `json:"key"`
	Definition settings.Definition `json:"definition"`
	Value      string              `json:"value"`
	Stored     bool                `json:"stored"`
}

func definition(storage *notification.Storage, method, key string) (settings.Definition, error) {
	if storage == nil {
		return settings.Definition{}, ErrStorageNil
	}
	if key == "" {
		return settings.Definition{}, ErrKeyEmpty
	}

	def, ok := storage.UserSettings(method)[key]
	if !ok {
		return settings.Definition{}, ErrSettingNotDefined
	}

	return def, nil
}

// GetValue returns the effective value of a user's notification
// setting: the stored row if present, the definition default otherwise.
func GetValue(
	db *gorm.DB,
	storage *notification.Storage,
	method string,
	userID uint64,
	key string,
) (string, error) {
	if db == nil {
		return "", ErrDBNil
	}

	def, err := definition(storage, method, key)
	if err != nil {
		return "", err
	}

	var row models.NotificationUserSetting
	result := db.Where(methodUserKeyQueryPattern, method, userID, key).First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return def.Default, nil
	}
	if result.Error != nil {
		return "", result.Error
	}

	return row.Value, nil
}

// SetValue validates and stores a user's notification setting (upsert).
func SetValue(
	db *gorm.DB,
	storage *notification.Storage,
	method string,
	userID uint64,
	key, value string,
) (*models.NotificationUserSetting, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	def, err := definition(storage, method, key)
	if err != nil {
		return nil, err
	}

	if err := def.Validate(value); err != nil {
		return nil, err
	}

	var row models.NotificationUserSetting
	result := db.Where(methodUserKeyQueryPattern, method, userID, key).First(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		row = models.NotificationUserSetting{
			Method: method,
			UserID: userID,
			Key:    key,
			Value:  value,
		}

		if err := db.Create(&row).Error; err != nil {
			return nil, err
		}

		return &row, nil
	}

	if result.Error != nil {
		return nil, result.Error
	}

	row.Value = value
	if err := db.Save(&row).Error; err != nil {
		return nil, err
	}

	return &row, nil
}

// All returns every setting declared by every registered method for one
// user, merged with stored values.
func All(db *gorm.DB, storage *notification.Storage, userID uint64) ([]Entry, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if storage == nil {
		return nil, ErrStorageNil
	}

	var rows []models.NotificationUserSetting
	if err := db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	type storedKey struct {
		method, key string
	}

	stored := make(map[storedKey]string, len(rows))
	for i := range rows {
		stored[storedKey{rows[i].Method, rows[i].Key}] = rows[i].Value
	}

	var entries []Entry

	for _, method := range storage.Methods() {
		for key, def := range storage.UserSettings(method) {
			entry := Entry{
				Method:     method,
				Key:        key,
				Definition: def,
				Value:      def.Default,
			}

			if v, ok := stored[storedKey{method, key}]; ok {
				entry.Value = v
				entry.Stored = true
			}

			entries = append(entries, entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Method != entries[j].Method {
			return entries[i].Method < entries[j].Method
		}
		return entries[i].Key < entries[j].Key
	})

	return entries, nil
}
