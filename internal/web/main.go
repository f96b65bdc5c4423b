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
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/auth"
	"github.com/GoInvenTree/GoInvenTree/internal/config"
	fiberlogger "github.com/GoInvenTree/GoInvenTree/internal/logger/adapter/fiber"
	notif "github.com/GoInvenTree/GoInvenTree/internal/notification"
	pluginreg "github.com/GoInvenTree/GoInvenTree/internal/plugin"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler/admin/instance"
	adminplugin "github.com/GoInvenTree/GoInvenTree/internal/web/handler/admin/plugin"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler/dashboard"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler/login"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler/logout"
	"github.com/GoInvenTree/GoInvenTree/internal/web/handler/part"
	partcategory "github.com/GoInvenTree/GoInvenTree/internal/web/handler/part/category"
	partparameter "github.com/GoInvenTree/GoInvenTree/internal/web/handler/part/parameter"
	parttemplate "github.com/GoInvenTree/GoInvenTree/internal/web/handler/part/template"
	notifsettings "github.com/GoInvenTree/GoInvenTree/internal/web/handler/settings/notification"
	pluginsettings "github.com/GoInvenTree/GoInvenTree/internal/web/handler/settings/plugin"
)

// CheckAlivePath is the health check endpoint used by load balancers.
const CheckAlivePath = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
	registry     *pluginreg.Registry
	storage      *notif.Storage
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	s.alive.Store(true)

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

	// Wait interrupt or shutdown request through /shutdown
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
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
func New(cfg *config.Config, db *gorm.DB, registry *pluginreg.Registry, storage *notif.Storage) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "GoInvenTree",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
		},
	)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
	}))

	// basic auth middleware
	app.Use(AuthMiddleware)

	// Initialize auth service
	authService := auth.NewService(db)

	// init web service
	service := &Service{
		cfg:         cfg,
		App:         app,
		db:          db,
		authService: authService,
		registry:    registry,
		storage:     storage,
	}

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// init handlers (they register their own routes with permission checks)
	if err := login.Handler.Init(app, cfg, db); err != nil {
		log.Fatal().Err(err).Msg("failed to init login handler")
	}
	logout.Handler.Init(app, cfg)
	dashboard.Handler.Init(app, cfg, db, registry, authService)

	// resource routes: the static part sub-resources must register
	// before the /part/:id routes
	partcategory.Handler.Init(app, cfg, db, authService)
	partparameter.Handler.Init(app, cfg, db, authService)
	parttemplate.Handler.Init(app, cfg, db, authService)
	part.Handler.Init(app, cfg, db, authService)

	adminplugin.Handler.Init(app, cfg, db, registry, authService)
	instance.Handler.Init(app, cfg, db, authService)
	pluginsettings.Handler.Init(app, cfg, db, registry, authService)
	notifsettings.Handler.Init(app, cfg, db, storage, authService)

	// redirect root to dashboard
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}
