// Package dashboard lists the signed-in user's blogs and handles blog
// creation.
package dashboard

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/controller/blog"
	"github.com/inkpress/inkpress/internal/web/handler"
	"github.com/inkpress/inkpress/internal/web/navigation"
	"github.com/inkpress/inkpress/internal/web/pagecache"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// CreateBlogPath is the path of the create-blog form action.
	CreateBlogPath = Path + "/blogs"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// createForm is the create-blog form payload.
type createForm struct {
	Name        string `form:"name"`
	Slug        string `form:"slug"`
	Description string `form:"description"`
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, s.Get)
	app.Post(CreateBlogPath, s.Create)

	return nil
}

// CacheKey is the per-user page cache key for the dashboard listing.
func CacheKey(userID string) string {
	return Path + ":" + userID
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	sessionUser := handler.CurrentUser(c)
	if sessionUser == nil {
		return c.Redirect("/signin")
	}

	if cached := pagecache.Get(CacheKey(sessionUser.ID)); cached != nil {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)

		return c.Send(cached)
	}

	blogs, err := blog.ForUser(s.db, sessionUser.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to load user blogs")

		blogs = nil
	}

	nav := navigation.NewContext("Dashboard").Activate()

	if err := c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"User":       sessionUser,
		"Blogs":      blogs,
	}, handler.BaseLayout); err != nil {
		return err
	}

	pagecache.Set(CacheKey(sessionUser.ID), c.Response().Body())

	return nil
}

// Create handles the create-blog form submission.
func (s *Service) Create(c *fiber.Ctx) error {
	sessionUser := handler.CurrentUser(c)
	if sessionUser == nil {
		return c.Redirect("/signin")
	}

	in := new(createForm)
	if err := c.BodyParser(in); err != nil {
		return s.renderError(c, "Invalid form data")
	}

	var description *string
	if in.Description != "" {
		description = &in.Description
	}

	newBlog, err := blog.Create(s.db, sessionUser.ID, in.Name, in.Slug, description)
	if err != nil {
		switch {
		case errors.Is(err, blog.ErrMissingFields):
			return s.renderError(c, "Name and slug are required")
		case errors.Is(err, blog.ErrSlugTaken):
			return s.renderError(c, "A blog with this URL slug already exists")
		default:
			log.Error().Err(err).Msg("failed to create blog")

			return s.renderError(c, "Failed to create blog")
		}
	}

	pagecache.Invalidate(CacheKey(sessionUser.ID))

	log.Info().Str("blog_id", newBlog.ID).Str("slug", newBlog.Slug).Msg("blog created")

	return c.Redirect(Path)
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	sessionUser := handler.CurrentUser(c)

	blogs, err := blog.ForUser(s.db, sessionUser.ID)
	if err != nil {
		blogs = nil
	}

	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"User":  sessionUser,
		"Blogs": blogs,
		"error": msg,
	}, handler.BaseLayout)
}
