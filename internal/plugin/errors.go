package plugin

import "errors"

var (
	// ErrPluginKeyEmpty is returned when registering a plugin with an empty key.
	ErrPluginKeyEmpty = errors.New("plugin key cannot be empty")

	// ErrPluginAlreadyRegistered is returned when a plugin with the same key is already registered.
	ErrPluginAlreadyRegistered = errors.New("plugin already registered")

	// ErrPluginNotRegistered is returned when a plugin key is not present in the registry.
	ErrPluginNotRegistered = errors.New("plugin not registered")

	// ErrRegistryDBNil is returned when the registry has no database connection for a reload.
	ErrRegistryDBNil = errors.New("registry database connection is nil")
)
