package daemon

import (
	"fmt"

	"github.com/gofiber/storage"
	sessionmemory "github.com/gofiber/storage/memory"
	sessionmysql "github.com/gofiber/storage/mysql"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoInvenTree/GoInvenTree/internal/config"
	"github.com/GoInvenTree/GoInvenTree/internal/db/dsn"
	"github.com/GoInvenTree/GoInvenTree/internal/db/models"
	"github.com/GoInvenTree/GoInvenTree/internal/notification"
	"github.com/GoInvenTree/GoInvenTree/internal/notification/methods"
	pluginreg "github.com/GoInvenTree/GoInvenTree/internal/plugin"
	"github.com/GoInvenTree/GoInvenTree/internal/plugin/builtin"
	"github.com/GoInvenTree/GoInvenTree/internal/tasks"
	"github.com/GoInvenTree/GoInvenTree/internal/web"
	"github.com/GoInvenTree/GoInvenTree/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	scheduler  *tasks.Scheduler
}

// Start starts the Daemon's background jobs and web service.
func (d *Daemon) Start() error {
	d.scheduler.Start()
	defer d.scheduler.Stop()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown waits for graceful shutdown of the web service.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db := openDatabase(cfg)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.Setting{},
		&models.PartCategory{},
		&models.Part{},
		&models.PartParameterTemplate{},
		&models.PartParameter{},
		&models.PluginConfig{},
		&models.PluginSetting{},
		&models.NotificationUserSetting{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	// register built-in plugins and sync their config rows
	registry := pluginreg.NewRegistry(db)
	for _, p := range builtin.All() {
		if err := registry.Register(p); err != nil {
			log.Fatal().Err(err).Str("plugin", p.Key()).Msg("failed to register plugin")
		}
	}

	if err := registry.ReloadPlugins(); err != nil {
		log.Fatal().Err(err).Msg("initial plugin reload failed")
	}

	// register built-in notification methods
	storage := notification.NewStorage()
	for _, m := range methods.All() {
		if err := storage.Register(m); err != nil {
			log.Fatal().Err(err).Str("method", m.Slug()).Msg("failed to register notification method")
		}
	}

	session.Init(sessionStorage(cfg))

	scheduler, err := tasks.New(cfg, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create task scheduler")
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, db, registry, storage),
		scheduler:  scheduler,
	}
}

// openDatabase opens the gorm connection for the configured engine.
func openDatabase(cfg *config.Config) *gorm.DB {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case dsn.EngineSQLite:
		dialector = gormsqlite.Open(dsn.Create(cfg))
	case dsn.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	return db
}

// sessionStorage selects the fiber session storage backend.
// The mysql engine shares the application database; other engines use
// an in-process store.
func sessionStorage(cfg *config.Config) storage.Storage {
	if cfg.DB.GormEngine == dsn.EngineMySQL {
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}

	return sessionmemory.New()
}
