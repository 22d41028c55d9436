// Package web wires the fiber application: middleware chain, handler
// registration and the server lifecycle.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/auth"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/config"
	adminsettings "github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/admin/settings"
	adminuser "github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/admin/user"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/alumnigroup"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/budget"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/contribution"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/document"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/event"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/healthz"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/login"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/logout"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/member"
	oidchandler "github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/oidc"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/region"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/report"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/smallgroup"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/training"
	"github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/handler/university"
	authmiddleware "github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/middleware/auth"
	scopemiddleware "github.com/GoMinistry-Admin/GoMinistry-Admin/internal/web/middleware/scope"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: fail the health check first, so
	// the LB removes this instance from active targets before we stop.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: failing health checks for %d seconds to drain the load balancer",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// session validation, then scope resolution
	authService := auth.NewService(db)

	app.Use(authmiddleware.Middleware)
	app.Use(scopemiddleware.New(authService))

	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
	}
	service.alive.Store(true)

	// init handlers (they register their own routes)
	if err := login.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}

	if err := logout.Handler.Init(app); err != nil {
		log.Fatal().Err(err).Msg("failed to init logout handler")
	}

	oidchandler.Handler.Init(app, cfg, db)

	if err := healthz.Handler.Init(app, &service.alive); err != nil {
		log.Fatal().Err(err).Msg("failed to init healthz handler")
	}

	region.Handler.Init(app, cfg, db)
	university.Handler.Init(app, cfg, db)
	smallgroup.Handler.Init(app, cfg, db)
	alumnigroup.Handler.Init(app, cfg, db)
	member.Handler.Init(app, cfg, db)
	event.Handler.Init(app, cfg, db)
	training.Handler.Init(app, cfg, db)
	budget.Handler.Init(app, cfg, db)
	document.Handler.Init(app, cfg, db)
	contribution.Handler.Init(app, cfg, db)
	report.Handler.Init(app, cfg, db)
	adminuser.Handler.Init(app, cfg, db, authService)
	adminsettings.Handler.Init(app, cfg, db)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": cfg.Title})
	})

	return service
}
