package daemon

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/rls"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/uniuri"
)

// seed creates the initial superadmin account and a default region on an
// empty database. The generated password is printed to the log exactly once;
// only the hash is stored.
func seed(_ *config.Config, db *gorm.DB) {
	var count int64

	db.Model(&models.User{}).Count(&count)

	if count == 0 {
		password := uniuri.NewLen(2 * uniuri.StdLen)

		admin := models.User{
			Username:   "admin",
			Email:      "admin@localhost",
			Password:   models.HashPassword(password),
			Active:     true,
			AuthSource: models.AuthSourceLocal,
		}

		if err := db.Create(&admin).Error; err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin user")

			return
		}

		assignment := models.RoleAssignment{
			UserID: admin.ID,
			Scope:  rls.ScopeSuperAdmin,
			Source: models.RoleAssignmentSourceLocal,
		}

		if err := db.Create(&assignment).Error; err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin role assignment")

			return
		}

		log.Warn().
			Str("username", admin.Username).
			Str("password", password).
			Msg("seeded initial admin account, change the password after first login")
	}

	var regions int64

	db.Model(&models.Region{}).Count(&regions)

	if regions == 0 {
		region := models.Region{
			Name:        "Default",
			Description: "Initial region, rename or replace as the organization grows",
		}

		if err := db.Create(&region).Error; err != nil {
			log.Fatal().Err(err).Msg("failed to seed default region")
		}
	}
}
