package auth

import "strings"

// Permission constants define the available permissions in the system.
// These are used for role-based access control (RBAC) to restrict access
// to specific resources and actions.
const (
	// PermPartCreate allows creating new parts, categories, parameters and templates.
	PermPartCreate = "part.create"
	// PermPartRead allows viewing parts and their satellites.
	PermPartRead = "part.read"
	// PermPartUpdate allows editing parts, categories, parameters and templates.
	PermPartUpdate = "part.update"
	// PermPartDelete allows deleting parts, categories, parameters and templates.
	PermPartDelete = "part.delete"

	// PermPluginRead allows viewing plugin configurations and settings.
	PermPluginRead = "plugin.read"
	// PermPluginUpdate allows changing plugin settings.
	PermPluginUpdate = "plugin.update"

	// PermAdminPlugins allows managing plugin configurations (activate, deactivate, delete).
	PermAdminPlugins = "admin.plugins"
	// PermAdminSettings allows managing instance-wide settings.
	PermAdminSettings = "admin.settings"
	// PermAdminUsers allows managing user accounts.
	PermAdminUsers = "admin.users"
)

// SplitPermission splits a permission name into its resource and
// action parts.
func SplitPermission(name string) (resource, action string) {
	resource, action, _ = strings.Cut(name, ".")
	return resource, action
}

// AllPermissions lists every permission seeded into the database.
var AllPermissions = []string{
	PermPartCreate,
	PermPartRead,
	PermPartUpdate,
	PermPartDelete,
	PermPluginRead,
	PermPluginUpdate,
	PermAdminPlugins,
	PermAdminSettings,
	PermAdminUsers,
}
