package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		definition    Definition
		value         string
		expectedError error
	}{
		{
			name:       "string accepts anything",
			definition: Definition{Type: TypeString},
			value:      "whatever",
		},
		{
			name:       "unset type accepts anything",
			definition: Definition{},
			value:      "whatever",
		},
		{
			name:       "bool accepts true",
			definition: Definition{Type: TypeBool},
			value:      "true",
		},
		{
			name:       "bool accepts mixed case",
			definition: Definition{Type: TypeBool},
			value:      "False",
		},
		{
			name:       "bool accepts on/off",
			definition: Definition{Type: TypeBool},
			value:      "off",
		},
		{
			name:          "bool rejects garbage",
			definition:    Definition{Type: TypeBool},
			value:         "maybe",
			expectedError: ErrValueNotBool,
		},
		{
			name:       "int accepts negative",
			definition: Definition{Type: TypeInt},
			value:      "-5",
		},
		{
			name:          "int rejects float",
			definition:    Definition{Type: TypeInt},
			value:         "1.5",
			expectedError: ErrValueNotInt,
		},
		{
			name:          "int rejects empty",
			definition:    Definition{Type: TypeInt},
			value:         "",
			expectedError: ErrValueNotInt,
		},
		{
			name:       "choice accepts listed value",
			definition: Definition{Type: TypeChoice, Choices: []string{"qr", "code128"}},
			value:      "code128",
		},
		{
			name:          "choice rejects unlisted value",
			definition:    Definition{Type: TypeChoice, Choices: []string{"qr", "code128"}},
			value:         "ean13",
			expectedError: ErrValueNotChoice,
		},
		{
			name:          "choice with no choices rejects everything",
			definition:    Definition{Type: TypeChoice},
			value:         "qr",
			expectedError: ErrValueNotChoice,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.definition.Validate(tc.value)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIsBool(t *testing.T) {
	assert.True(t, Definition{Type: TypeBool}.IsBool())
	assert.False(t, Definition{Type: TypeString}.IsBool())
	assert.False(t, Definition{}.IsBool())
}

func TestAsBool(t *testing.T) {
	testCases := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"True", true},
		{"1", true},
		{"on", true},
		{"false", false},
		{"0", false},
		{"off", false},
		{"", false},
		{"garbage", false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			assert.Equal(t, tc.expected, AsBool(tc.value))
		})
	}
}
