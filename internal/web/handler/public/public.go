// Package public serves the reader-facing blog pages. These routes are
// anonymous, themed per blog, and record a page view on every hit.
package public

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/controller/analytics"
	"github.com/inkpress/inkpress/internal/db/controller/blog"
	"github.com/inkpress/inkpress/internal/db/controller/post"
	"github.com/inkpress/inkpress/internal/db/models"
	"github.com/inkpress/inkpress/internal/web/handler"
	"github.com/inkpress/inkpress/internal/web/pagecache"
)

const (
	// BlogPath is the path of a blog's public home page.
	BlogPath = "/blog/:slug"
	// PostPath is the path of a single public post.
	PostPath = "/blog/:slug/:postSlug"

	// BlogTemplateName is the public blog home template.
	BlogTemplateName = "public/blog"
	// PostTemplateName is the public post template.
	PostTemplateName = "public/post"
)

// UnknownVisitor is recorded when no client address can be determined.
const UnknownVisitor = "unknown"

// pageViews counts served public pages by page type.
var pageViews = promauto.NewCounterVec( //nolint:gochecknoglobals
	prometheus.CounterOpts{
		Name: "blog_page_views_total",
		Help: "Number of public blog pages served, differentiated by page type.",
	},
	[]string{"page_type"},
)

// Service is the public blog handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the public blog handler.
var Handler = Service{}

// Init initializes the public blog handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Get(BlogPath, s.Blog)
	app.Get(PostPath, s.Post)

	return nil
}

// visitorFrom extracts the recording identity of the current request. The
// first X-Forwarded-For entry wins, then X-Real-Ip, then the unknown marker.
func visitorFrom(c *fiber.Ctx) analytics.Visitor {
	ip := c.Get("X-Forwarded-For")
	if ip != "" {
		ip = strings.TrimSpace(strings.Split(ip, ",")[0])
	}

	if ip == "" {
		ip = c.Get("X-Real-Ip")
	}

	if ip == "" {
		ip = UnknownVisitor
	}

	return analytics.Visitor{
		IP:        ip,
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Referrer:  c.Get(fiber.HeaderReferer),
	}
}

// Blog handles the public blog home page. Search and category filters come in
// as query parameters and narrow the published post list.
func (s *Service) Blog(c *fiber.Ctx) error {
	dbBlog, err := blog.GetBySlug(s.db, c.Params("slug"))
	if err != nil {
		return handler.RenderNotFound(c)
	}

	analytics.Record(s.db, dbBlog.ID, nil, models.PageTypeBlogHome, visitorFrom(c))
	pageViews.WithLabelValues(string(models.PageTypeBlogHome)).Inc()

	search := c.Query("q")

	var selected []string
	if raw := c.Query("category"); raw != "" {
		selected = strings.Split(raw, ",")
	}

	// Only the unfiltered page is worth caching.
	cacheable := search == "" && len(selected) == 0
	cacheKey := "/blog/" + dbBlog.Slug

	if cacheable {
		if cached := pagecache.Get(cacheKey); cached != nil {
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)

			return c.Send(cached)
		}
	}

	posts, err := post.Published(s.db, dbBlog.Slug, search, selected)
	if err != nil {
		return handler.RenderNotFound(c)
	}

	categories, err := post.Categories(s.db, dbBlog.Slug)
	if err != nil {
		categories = nil
	}

	if err := c.Render(BlogTemplateName, fiber.Map{
		"Title":      dbBlog.Name,
		"Blog":       dbBlog,
		"Posts":      posts,
		"Categories": categories,
		"Selected":   selected,
		"Search":     search,
	}, handler.PublicLayout); err != nil {
		return err
	}

	if cacheable {
		pagecache.Set(cacheKey, c.Response().Body())
	}

	return nil
}

// Post handles a single public post page. Unpublished posts are invisible
// here regardless of who is asking.
func (s *Service) Post(c *fiber.Ctx) error {
	dbBlog, err := blog.GetBySlug(s.db, c.Params("slug"))
	if err != nil {
		return handler.RenderNotFound(c)
	}

	dbPost, err := post.GetPublished(s.db, dbBlog.Slug, c.Params("postSlug"))
	if err != nil {
		return handler.RenderNotFound(c)
	}

	analytics.Record(s.db, dbBlog.ID, &dbPost.ID, models.PageTypePost, visitorFrom(c))
	pageViews.WithLabelValues(string(models.PageTypePost)).Inc()

	return c.Render(PostTemplateName, fiber.Map{
		"Title": dbPost.Title + " | " + dbBlog.Name,
		"Blog":  dbBlog,
		"Post":  dbPost,
	}, handler.PublicLayout)
}
