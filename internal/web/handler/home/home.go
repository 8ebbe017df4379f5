// Package home renders the public landing page.
package home

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/web/handler"
)

const (
	// Path is the path to the landing page.
	Path = handler.RootPath

	// TemplateName is the name of the landing page template.
	TemplateName = "home"
)

// Service is the landing page handler service.
type Service struct {
	handler.Service
	cfg *config.Config
}

// Handler is the landing page handler.
var Handler = Service{}

// Init initializes the landing page handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg or db is nil")
	}

	s.cfg = cfg

	app.Get(Path, s.Get)

	return nil
}

// Get handles the landing page rendering. Signed-in users are sent to the
// dashboard by the auth middleware before reaching this handler only for
// the auth pages, so redirect here as well.
func (s *Service) Get(c *fiber.Ctx) error {
	if handler.CurrentUser(c) != nil {
		return c.Redirect("/dashboard")
	}

	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	}, handler.BaseLayout)
}
