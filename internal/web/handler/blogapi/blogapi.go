// Package blogapi exposes the JSON endpoint for fetching a single blog.
package blogapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/controller/blog"
	"github.com/inkpress/inkpress/internal/web/handler"
)

// Path is the path of the blog JSON endpoint.
const Path = "/api/blogs/:id"

// Service is the blog API handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the blog API handler.
var Handler = Service{}

// Init initializes the blog API handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, s.Get)

	return nil
}

// Get handles the blog JSON endpoint. Anonymous callers get 401, signed-in
// callers that do not own the blog get 403.
func (s *Service) Get(c *fiber.Ctx) error {
	sessionUser := handler.CurrentUser(c)
	if sessionUser == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	dbBlog, err := blog.GetByID(s.db, c.Params("id"))
	if err != nil {
		if errors.Is(err, blog.ErrBlogNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Blog not found",
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch blog",
		})
	}

	if dbBlog.UserID != sessionUser.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Forbidden",
		})
	}

	return c.JSON(dbBlog)
}
