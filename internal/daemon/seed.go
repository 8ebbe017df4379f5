package daemon

import (
	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/models"
)

func seed(cfg *config.Config, db *gorm.DB) {
	// Seed a demo account if the user table is empty

	var count int64
	db.Model(&models.User{}).Count(&count)

	if count != 0 {
		return
	}

	demoUser := &models.User{
		Email:    "demo@example.com",
		Name:     "Demo User",
		Password: models.HashPassword("changeme"),
	}

	if err := db.Create(demoUser).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed demo user")
		return
	}

	demoBlog := &models.Blog{
		UserID: demoUser.ID,
		Name:   "Demo Blog",
		Slug:   "demo",
	}
	if cfg.Title != "" {
		description := "A first blog on " + cfg.Title
		demoBlog.Description = &description
	}

	if err := db.Create(demoBlog).Error; err != nil {
		log.Error().Err(err).Msg("failed to seed demo blog")
		return
	}

	log.Info().Str("email", demoUser.Email).Msg("seeded demo account")
}
