// Package signup provides the sign-up page and form action.
package signup

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/controller/user"
	"github.com/inkpress/inkpress/internal/web/handler"
	"github.com/inkpress/inkpress/internal/web/session"
)

const (
	// Path is the path to the sign-up page.
	Path = "/signup"

	// TemplateName is the name of the sign-up template.
	TemplateName = "auth/signup"
)

// form is the sign-up form payload.
type form struct {
	Email    string `form:"email"    validate:"required,email"`
	Name     string `form:"name"     validate:"required"`
	Password string `form:"password" validate:"required,min=8"`
}

// Service is the sign-up handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the sign-up handler.
var Handler = Service{}

// Init initializes the sign-up handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New("app, cfg or db is nil")
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get handles the sign-up page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	}, handler.BaseLayout)
}

// Post handles the sign-up form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	in := new(form)

	if err := c.BodyParser(in); err != nil {
		return s.renderError(c, in, "Invalid form data")
	}

	if err := s.validator.Struct(in); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return s.renderError(c, in, validationMessage(vErrs[0]))
		}

		return s.renderError(c, in, "Invalid form data")
	}

	newUser, err := user.SignUp(s.db, in.Email, in.Name, in.Password)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return s.renderError(c, in, "User already exists with this email")
		}

		log.Error().Err(err).Msg("sign up failed")

		return s.renderError(c, in, "Failed to create user")
	}

	session.Set(c, newUser.ID, s.cfg.Webserver.Session.ExpiryTime, s.cfg.DevMode)

	return c.Redirect("/dashboard")
}

// validationMessage maps the first failed validation to a form error string.
func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Field() {
	case "Email":
		return "A valid email address is required"
	case "Name":
		return "Name is required"
	default:
		return "Password must be at least 8 characters"
	}
}

func (s *Service) renderError(c *fiber.Ctx, in *form, msg string) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"Email": in.Email,
		"Name":  in.Name,
		"error": msg,
	}, handler.BaseLayout)
}
