// Package instance holds the instance-wide application settings blob.
package instance

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/db/controller/setting"
)

const (
	// SettingKeyInstance is the key used to store instance settings in the database.
	SettingKeyInstance = "instance"
)

type (
	// Settings represents instance-wide application configuration
	// managed by administrators at runtime.
	Settings struct {
		InstanceName  string `form:"instance_name"   json:"instanceName"  validate:"required,min=1,max=100"`
		BaseURL       string `form:"base_url"        json:"baseUrl"       validate:"omitempty,url"`
		CompanyName   string `form:"company_name"    json:"companyName"   validate:"max=100"`
		DefaultUnits  string `form:"default_units"   json:"defaultUnits"  validate:"max=25"`
		PartIPNRegex  string `form:"part_ipn_regex"  json:"partIpnRegex"  validate:"max=250"`
		PartsCopyable bool   `form:"parts_copyable"  json:"partsCopyable"`
	}
)

// Defaults returns the instance settings used before an administrator
// stores anything.
func Defaults() Settings {
	return Settings{
		InstanceName:  "GoInvenTree",
		DefaultUnits:  "pcs",
		PartsCopyable: true,
	}
}

// Load loads the instance settings from the database.
func (i *Settings) Load(db *gorm.DB) error {
	s, err := setting.Get(db, SettingKeyInstance)
	if err != nil {
		return err
	}

	return json.Unmarshal(s.Value, i)
}

// Save saves the instance settings to the database.
func (i *Settings) Save(db *gorm.DB) error {
	data, err := json.Marshal(i)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, SettingKeyInstance, data)

	return err
}
