// Package settings defines runtime-declared setting definitions.
// Setting keys and defaults are not statically known to the settings
// storage; plugins and notification methods declare them at startup
// and the storage layer resolves values against these definitions.
package settings

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Type describes how a setting value is interpreted.
type Type string

const (
	// TypeString is a free-form text setting.
	TypeString Type = "string"
	// TypeBool is a boolean setting ("true"/"false").
	TypeBool Type = "bool"
	// TypeInt is an integer setting.
	TypeInt Type = "int"
	// TypeChoice is a setting restricted to a fixed list of choices.
	TypeChoice Type = "choice"
)

var (
	// ErrValueNotBool is returned when a bool setting receives a non-boolean value.
	ErrValueNotBool = errors.New("value is not a boolean")
	// ErrValueNotInt is returned when an int setting receives a non-integer value.
	ErrValueNotInt = errors.New("value is not an integer")
	// ErrValueNotChoice is returned when a choice setting receives a value outside its choices.
	ErrValueNotChoice = errors.New("value is not one of the allowed choices")
)

// Definition describes a single setting declared by a plugin or
// notification method: its display name, default value and how values
// are validated.
type Definition struct {
	// Name is the human-readable name of the setting.
	Name string `json:"name"`
	// Description explains what the setting controls.
	Description string `json:"description"`
	// Type determines value interpretation and validation.
	Type Type `json:"type"`
	// Default is the value used when no row is stored.
	Default string `json:"default"`
	// Choices restricts valid values when Type is TypeChoice.
	Choices []string `json:"choices,omitempty"`
	// Units describes the physical units of the value, if any.
	Units string `json:"units,omitempty"`
	// Protected hides the stored value from API output (e.g. API keys).
	Protected bool `json:"protected,omitempty"`
}

// IsBool reports whether the definition describes a boolean setting.
func (d Definition) IsBool() bool {
	return d.Type == TypeBool
}

// Validate checks a candidate value against the definition type.
func (d Definition) Validate(value string) error {
	switch d.Type {
	case TypeBool:
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "on", "off":
			return nil
		}

		return ErrValueNotBool
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return ErrValueNotInt
		}

		return nil
	case TypeChoice:
		for _, c := range d.Choices {
			if c == value {
				return nil
			}
		}

		return ErrValueNotChoice
	default:
		return nil
	}
}

// AsBool normalizes a stored value of a boolean setting.
func AsBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "on":
		return true
	default:
		return false
	}
}
