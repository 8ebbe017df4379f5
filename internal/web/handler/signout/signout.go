// Package signout clears the session cookie.
package signout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/web/handler"
	"github.com/inkpress/inkpress/internal/web/session"
)

const (
	// Path is the path of the sign-out action.
	Path = "/signout"
)

// Service is the sign-out handler service.
type Service struct {
	handler.Service
}

// Handler is the sign-out handler.
var Handler = Service{}

// Init initializes the sign-out handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg or db is nil")
	}

	app.Post(Path, s.Post)

	return nil
}

// Post clears the session and redirects to the landing page.
func (s *Service) Post(c *fiber.Ctx) error {
	session.Clear(c)

	return c.Redirect("/")
}
