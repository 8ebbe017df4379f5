// Package signin provides the sign-in page and form action.
package signin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/controller/user"
	"github.com/inkpress/inkpress/internal/web/handler"
	"github.com/inkpress/inkpress/internal/web/session"
)

const (
	// Path is the path to the sign-in page.
	Path = "/signin"

	// TemplateName is the name of the sign-in template.
	TemplateName = "auth/signin"
)

// form is the sign-in form payload.
type form struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Service is the sign-in handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the sign-in handler.
var Handler = Service{}

// Init initializes the sign-in handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg or db is nil")
	}

	s.db = db
	s.cfg = cfg

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get handles the sign-in page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	}, handler.BaseLayout)
}

// Post handles the sign-in form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(form)

	if err := c.BodyParser(in); err != nil {
		return s.renderError(c, "Invalid form data")
	}

	sessionUser, err := user.SignIn(s.db, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return s.renderError(c, "Invalid email or password")
		}

		log.Error().Err(err).Msg("sign in failed")

		return s.renderError(c, "Internal server error")
	}

	session.Set(c, sessionUser.ID, s.cfg.Webserver.Session.ExpiryTime, s.cfg.DevMode)

	return c.Redirect("/dashboard")
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"error": msg,
	}, handler.BaseLayout)
}
