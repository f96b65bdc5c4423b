// Package auth provides authentication and authorization functionality for the application.
//
// Authentication is local: username/password against the database with
// Argon2id password hashing. Authorization uses a Role-Based Access
// Control (RBAC) model:
//   - Users have a direct role assignment
//   - Roles contain a set of permissions
//   - Permissions are checked for resource access
//
// # Permission Checking
//
// The Service type provides methods for checking user permissions:
//   - HasPermission: Check if user has a specific permission
//   - HasAnyPermission: Check if user has at least one permission from a list
//   - HasAllPermissions: Check if user has all permissions from a list
//   - GetUserPermissions: Retrieve all permissions for a user
//
// # Middleware
//
// Fiber middleware functions are provided for route protection:
//   - RequirePermission: Protect routes requiring a specific permission
//   - RequireAnyPermission: Protect routes requiring any of several permissions
//   - RequireAllPermissions: Protect routes requiring all of several permissions
//
// Example usage:
//
//	// Initialize auth service
//	authService := auth.NewService(db)
//
//	// Check permission in handler
//	hasPermission, err := authService.HasPermission(userID, auth.PermPartCreate)
//
//	// Protect route with middleware
//	app.Get("/admin/plugin/",
//	    auth.RequirePermission(authService, auth.PermAdminPlugins),
//	    handler,
//	)
package auth
