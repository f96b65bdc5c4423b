package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	"github.com/GoInvenTree/GoInvenTree/internal/uniuri"
)

// seed fills an empty database with the RBAC base data and the initial
// admin account.
func seed(_ *config.Config, db *gorm.DB) {
	seedPermissions(db)
	seedRoles(db)
	seedAdmin(db)
}

func seedPermissions(db *gorm.DB) {
	for _, name := range auth.AllPermissions {
		resource, action := auth.SplitPermission(name)

		var count int64
		db.Model(&models.Permission{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			continue
		}

		db.Create(&models.Permission{
			Name:     name,
			Resource: resource,
			Action:   action,
		})
	}
}

func seedRoles(db *gorm.DB) {
	var count int64

	db.Model(&models.Role{}).Count(&count)
	if count > 0 {
		return
	}

	admin := models.Role{
		Name:        "admin",
		Description: "Full access to all resources",
		IsSystem:    true,
	}
	db.Create(&admin)

	user := models.Role{
		Name:        "user",
		Description: "Read and manage parts",
		IsSystem:    true,
	}
	db.Create(&user)

	// admin gets everything, user gets the part permissions
	var permissions []models.Permission
	db.Find(&permissions)

	for _, p := range permissions {
		db.Create(&models.RolePermission{RoleID: admin.ID, PermissionID: p.ID})

		if p.Resource == "part" {
			db.Create(&models.RolePermission{RoleID: user.ID, PermissionID: p.ID})
		}
	}
}

func seedAdmin(db *gorm.DB) {
	var count int64

	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return
	}

	var adminRole models.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		log.Error().Err(err).Msg("admin role missing, skipping admin user seed")
		return
	}

	password := uniuri.New()

	db.Create(&models.User{
		Username: "admin",
		Password: models.HashPassword(password),
		Active:   true,
		RoleID:   adminRole.ID,
	})

	// logged once so the operator can do the first login
	log.Info().Str("username", "admin").Str("password", password).
		Msg("created initial admin user")
}
