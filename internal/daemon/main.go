// Package daemon assembles the running service: database, migrations, seed
// data, session storage and the web application.
package daemon

import (
	"fmt"

	sessionmysql "github.com/gofiber/storage/mysql"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/dsn"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/db/models"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/logger"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")

		return nil
	}

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize logger")

		return nil
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg))

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")

		return nil
	}

	if err = db.AutoMigrate(
		&models.Region{},
		&models.University{},
		&models.SmallGroup{},
		&models.AlumniSmallGroup{},
		&models.Member{},
		&models.PermanentMinistryEvent{},
		&models.Attendance{},
		&models.Training{},
		&models.Budget{},
		&models.Document{},
		&models.ContributionDesignation{},
		&models.Contribution{},
		&models.User{},
		&models.RoleAssignment{},
		&models.Setting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")

		return nil
	}

	seed(cfg, db)

	// Initialize fiber session store
	sessionStorage := sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})

	session.Init(sessionStorage)

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db),
	}
}
