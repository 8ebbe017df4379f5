// Package blogadmin provides the per-blog dashboard pages: post listing,
// analytics and theme customization.
package blogadmin

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/controller/analytics"
	"github.com/inkpress/inkpress/internal/db/controller/blog"
	"github.com/inkpress/inkpress/internal/db/controller/post"
	"github.com/inkpress/inkpress/internal/db/models"
	"github.com/inkpress/inkpress/internal/web/handler"
	"github.com/inkpress/inkpress/internal/web/handler/dashboard"
	"github.com/inkpress/inkpress/internal/web/navigation"
	"github.com/inkpress/inkpress/internal/web/pagecache"
)

const (
	// Path is the base path of the per-blog dashboard pages.
	Path = dashboard.Path + "/blogs/:id"

	// TemplateDetail is the blog detail (post listing) template.
	TemplateDetail = "dashboard/blog"
	// TemplateAnalytics is the analytics page template.
	TemplateAnalytics = "dashboard/analytics"
	// TemplateCustomize is the theme customization template.
	TemplateCustomize = "dashboard/customize"
)

// themecolor validates a strict 3- or 6-digit hex color.
const themeColorTag = "themecolor"

// colorsForm is the update-colors form payload.
type colorsForm struct {
	PrimaryColor   string `form:"primary_color"   validate:"required,themecolor"`
	SecondaryColor string `form:"secondary_color" validate:"required,themecolor"`
	AccentColor    string `form:"accent_color"    validate:"required,themecolor"`
}

// Service is the per-blog dashboard handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the per-blog dashboard handler.
var Handler = Service{}

// Init initializes the per-blog dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	if err := s.validator.RegisterValidation(themeColorTag, func(fl validator.FieldLevel) bool {
		return blog.IsHexColor(fl.Field().String())
	}); err != nil {
		return err
	}

	app.Get(Path, s.Get)
	app.Get(Path+"/analytics", s.Analytics)
	app.Get(Path+"/customize", s.Customize)
	app.Post(Path+"/customize", s.UpdateColors)

	return nil
}

// ownedBlog resolves the :id route parameter and enforces ownership. Blogs
// of other users are indistinguishable from absent ones.
func (s *Service) ownedBlog(c *fiber.Ctx) (*models.Blog, error) {
	sessionUser := handler.CurrentUser(c)
	if sessionUser == nil {
		return nil, blog.ErrBlogNotFound
	}

	dbBlog, err := blog.GetByID(s.db, c.Params("id"))
	if err != nil {
		return nil, err
	}

	if dbBlog.UserID != sessionUser.ID {
		return nil, blog.ErrBlogNotFound
	}

	return dbBlog, nil
}

// Get handles the blog detail page with its post listing.
func (s *Service) Get(c *fiber.Ctx) error {
	dbBlog, err := s.ownedBlog(c)
	if err != nil {
		return handler.RenderNotFound(c)
	}

	posts, err := post.ForBlog(s.db, dbBlog.ID)
	if err != nil {
		log.Error().Err(err).Str("blog_id", dbBlog.ID).Msg("failed to load posts")

		posts = nil
	}

	nav := navigation.BlogTrail(dbBlog.Name, dbBlog.Name, dashboard.Path+"/blogs/"+dbBlog.ID).
		Activate()

	return c.Render(TemplateDetail, fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"User":       handler.CurrentUser(c),
		"Blog":       dbBlog,
		"Posts":      posts,
	}, handler.BaseLayout)
}

// Analytics handles the analytics page: headline numbers, daily series and
// traffic sources over the trailing 30 days.
func (s *Service) Analytics(c *fiber.Ctx) error {
	dbBlog, err := s.ownedBlog(c)
	if err != nil {
		return handler.RenderNotFound(c)
	}

	summary, err := analytics.GetSummary(s.db, dbBlog.ID)
	if err != nil {
		log.Error().Err(err).Str("blog_id", dbBlog.ID).Msg("failed to load analytics summary")

		summary = &analytics.Summary{PopularPosts: []analytics.PopularPost{}}
	}

	events, err := analytics.ForBlog(s.db, dbBlog.ID, analytics.DefaultWindowDays)
	if err != nil {
		log.Error().Err(err).Str("blog_id", dbBlog.ID).Msg("failed to load analytics events")

		events = nil
	}

	nav := navigation.BlogTrail("Analytics", dbBlog.Name, dashboard.Path+"/blogs/"+dbBlog.ID).
		AddBreadcrumb("Analytics", dashboard.Path+"/blogs/"+dbBlog.ID+"/analytics", true)

	return c.Render(TemplateAnalytics, fiber.Map{
		"Title":          s.cfg.Title,
		"Navigation":     nav,
		"User":           handler.CurrentUser(c),
		"Blog":           dbBlog,
		"Summary":        summary,
		"DailySeries":    analytics.DailySeries(events),
		"TrafficSources": analytics.TrafficSources(events),
	}, handler.BaseLayout)
}

// Customize handles the theme customization page rendering.
func (s *Service) Customize(c *fiber.Ctx) error {
	dbBlog, err := s.ownedBlog(c)
	if err != nil {
		return handler.RenderNotFound(c)
	}

	return s.renderCustomize(c, dbBlog, "")
}

// UpdateColors handles the update-colors form submission.
func (s *Service) UpdateColors(c *fiber.Ctx) error {
	dbBlog, err := s.ownedBlog(c)
	if err != nil {
		return handler.RenderNotFound(c)
	}

	in := new(colorsForm)
	if err := c.BodyParser(in); err != nil {
		return s.renderCustomize(c, dbBlog, "Invalid form data")
	}

	if in.PrimaryColor == "" || in.SecondaryColor == "" || in.AccentColor == "" {
		return s.renderCustomize(c, dbBlog, "All color fields are required")
	}

	if err := s.validator.Struct(in); err != nil {
		return s.renderCustomize(c, dbBlog, "Invalid color format. Please use hex colors (e.g., #FF0000)")
	}

	updated, err := blog.UpdateColors(s.db, dbBlog.ID, in.PrimaryColor, in.SecondaryColor, in.AccentColor)
	if err != nil {
		switch {
		case errors.Is(err, blog.ErrMissingColors):
			return s.renderCustomize(c, dbBlog, "All color fields are required")
		case errors.Is(err, blog.ErrBadColor):
			return s.renderCustomize(c, dbBlog, "Invalid color format. Please use hex colors (e.g., #FF0000)")
		default:
			log.Error().Err(err).Str("blog_id", dbBlog.ID).Msg("failed to update blog colors")

			return s.renderCustomize(c, dbBlog, "Failed to update blog colors")
		}
	}

	pagecache.Invalidate(
		dashboard.CacheKey(handler.CurrentUser(c).ID),
		"/blog/"+updated.Slug,
	)

	return c.Redirect(dashboard.Path + "/blogs/" + updated.ID + "/customize")
}

func (s *Service) renderCustomize(c *fiber.Ctx, dbBlog *models.Blog, errMsg string) error {
	nav := navigation.BlogTrail("Customize", dbBlog.Name, dashboard.Path+"/blogs/"+dbBlog.ID).
		AddBreadcrumb("Customize", dashboard.Path+"/blogs/"+dbBlog.ID+"/customize", true)

	data := fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"User":       handler.CurrentUser(c),
		"Blog":       dbBlog,
	}

	if errMsg != "" {
		data["error"] = errMsg
	}

	return c.Render(TemplateCustomize, data, handler.BaseLayout)
}
