// Package daemon wires the database, the page cache and the web service
// together and runs them.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage/memory/v2"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/dsn"
	"github.com/inkpress/inkpress/internal/db/models"
	"github.com/inkpress/inkpress/internal/web"
	"github.com/inkpress/inkpress/internal/web/pagecache"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService web.Service
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

	db, err := gorm.Open(dialector(cfg), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic("failed to connect database")
	}

	migrations := []any{
		&models.User{},
		&models.Blog{},
		&models.Post{},
	}

	// the analytics table is optional: when it is not provisioned the
	// dashboard falls back to placeholder numbers
	if !cfg.Analytics.Disabled {
		migrations = append(migrations, &models.AnalyticsEvent{})
	}

	if err = db.AutoMigrate(migrations...); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	// rendered-page cache, invalidated by mutations
	pagecache.Init(memory.New())

	return &Daemon{
		cfg:        cfg,
		webService: *web.New(cfg, db),
	}
}

// dialector picks the gorm driver for the configured database engine.
func dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.Engine {
	case config.EnginePostgres:
		return gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		return sqlite.Open(dsn.Create(cfg))
	default:
		return gormmysql.Open(dsn.Create(cfg))
	}
}
