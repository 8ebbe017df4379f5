// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/inkpress/inkpress/internal/config"
)

// Create builds the Data Source Name for the configured database engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.Engine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d",
			cfg.DB.Host,
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Name,
			cfg.DB.Port,
		)

		if cfg.DB.Extras != "" {
			out += " " + cfg.DB.Extras
		}

		return out
	case config.EngineSQLite:
		if cfg.DB.Path == "" {
			return "inkpress.db"
		}

		return cfg.DB.Path
	default: // mysql
		extras := cfg.DB.Extras
		if extras == "" {
			extras = "charset=utf8mb4&parseTime=True&loc=Local"
		}

		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			cfg.DB.User,
			cfg.DB.Password,
			cfg.DB.Host,
			cfg.DB.Port,
			cfg.DB.Name,
			extras,
		)
	}
}
