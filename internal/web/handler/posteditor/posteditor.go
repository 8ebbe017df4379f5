// Package posteditor provides the post create and edit pages and their form
// actions.
package posteditor

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/config"
	"github.com/inkpress/inkpress/internal/db/controller/blog"
	"github.com/inkpress/inkpress/internal/db/controller/post"
	"github.com/inkpress/inkpress/internal/db/models"
	"github.com/inkpress/inkpress/internal/web/handler"
	"github.com/inkpress/inkpress/internal/web/handler/dashboard"
	"github.com/inkpress/inkpress/internal/web/navigation"
	"github.com/inkpress/inkpress/internal/web/pagecache"
)

const (
	// NewPath is the path of the post creation page.
	NewPath = dashboard.Path + "/blogs/:id/posts/new"
	// CreatePath is the path of the create-post form action.
	CreatePath = dashboard.Path + "/blogs/:id/posts"
	// EditPath is the path of the post edit page and update action.
	EditPath = dashboard.Path + "/blogs/:id/posts/:postID/edit"

	// TemplateName is the shared editor template for create and edit.
	TemplateName = "dashboard/post_form"
)

// form is the post editor form payload.
type form struct {
	Title            string `form:"title"`
	Slug             string `form:"slug"`
	Content          string `form:"content"`
	Excerpt          string `form:"excerpt"`
	Published        string `form:"published"`
	FeaturedImageURL string `form:"featured_image_url"`
	CustomCSS        string `form:"custom_css"`
	Categories       string `form:"categories"` // serialized JSON list
}

// fields converts the raw form values into the controller's field bundle.
func (f *form) fields() post.Fields {
	return post.Fields{
		Content:          optional(f.Content),
		Excerpt:          optional(f.Excerpt),
		Published:        f.Published == "true",
		FeaturedImageURL: optional(f.FeaturedImageURL),
		CustomCSS:        optional(f.CustomCSS),
		Categories:       post.ParseCategories(f.Categories),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Service is the post editor handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the post editor handler.
var Handler = Service{}

// Init initializes the post editor handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.db = db
	s.cfg = cfg

	app.Get(NewPath, s.New)
	app.Post(CreatePath, s.Create)
	app.Get(EditPath, s.Edit)
	app.Post(EditPath, s.Update)

	return nil
}

// ownedBlog resolves the :id route parameter and enforces ownership.
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

// New handles the post creation page rendering.
func (s *Service) New(c *fiber.Ctx) error {
	dbBlog, err := s.ownedBlog(c)
	if err != nil {
		return handler.RenderNotFound(c)
	}

	return s.renderForm(c, dbBlog, nil, "")
}

// Create handles the create-post form submission.
func (s *Service) Create(c *fiber.Ctx) error {
	dbBlog, err := s.ownedBlog(c)
	if err != nil {
		return handler.RenderNotFound(c)
	}

	in := new(form)
	if err := c.BodyParser(in); err != nil {
		return s.renderForm(c, dbBlog, nil, "Invalid form data")
	}

	newPost, err := post.Create(s.db, dbBlog.ID, in.Title, in.Slug, in.fields())
	if err != nil {
		switch {
		case errors.Is(err, post.ErrMissingFields):
			return s.renderForm(c, dbBlog, nil, "Blog ID, title, and slug are required")
		case errors.Is(err, post.ErrSlugTaken):
			return s.renderForm(c, dbBlog, nil, "A post with this URL slug already exists in this blog")
		default:
			log.Error().Err(err).Str("blog_id", dbBlog.ID).Msg("failed to create post")

			return s.renderForm(c, dbBlog, nil, "Failed to create post")
		}
	}

	s.invalidate(c, dbBlog, newPost)

	return c.Redirect(dashboard.Path + "/blogs/" + dbBlog.ID)
}

// Edit handles the post edit page rendering.
func (s *Service) Edit(c *fiber.Ctx) error {
	dbBlog, err := s.ownedBlog(c)
	if err != nil {
		return handler.RenderNotFound(c)
	}

	dbPost, err := post.GetByID(s.db, c.Params("postID"))
	if err != nil || dbPost.BlogID != dbBlog.ID {
		return handler.RenderNotFound(c)
	}

	return s.renderForm(c, dbBlog, dbPost, "")
}

// Update handles the update-post form submission.
func (s *Service) Update(c *fiber.Ctx) error {
	dbBlog, err := s.ownedBlog(c)
	if err != nil {
		return handler.RenderNotFound(c)
	}

	dbPost, err := post.GetByID(s.db, c.Params("postID"))
	if err != nil || dbPost.BlogID != dbBlog.ID {
		return handler.RenderNotFound(c)
	}

	in := new(form)
	if err := c.BodyParser(in); err != nil {
		return s.renderForm(c, dbBlog, dbPost, "Invalid form data")
	}

	updated, err := post.Update(s.db, dbPost.ID, in.Title, in.Slug, in.fields())
	if err != nil {
		switch {
		case errors.Is(err, post.ErrPostNotFound):
			return s.renderForm(c, dbBlog, dbPost, "Post not found")
		case errors.Is(err, post.ErrMissingFields):
			return s.renderForm(c, dbBlog, dbPost, "Post ID, title, and slug are required")
		case errors.Is(err, post.ErrSlugTaken):
			return s.renderForm(c, dbBlog, dbPost, "A post with this URL slug already exists in this blog")
		default:
			log.Error().Err(err).Str("post_id", dbPost.ID).Msg("failed to update post")

			return s.renderForm(c, dbBlog, dbPost, "Failed to update post")
		}
	}

	s.invalidate(c, dbBlog, updated)

	return c.Redirect(dashboard.Path + "/blogs/" + dbBlog.ID)
}

// invalidate drops the cached pages a post mutation can affect.
func (s *Service) invalidate(c *fiber.Ctx, dbBlog *models.Blog, dbPost *models.Post) {
	pagecache.Invalidate(
		dashboard.CacheKey(handler.CurrentUser(c).ID),
		"/blog/"+dbBlog.Slug,
		"/blog/"+dbBlog.Slug+"/"+dbPost.Slug,
	)
}

func (s *Service) renderForm(c *fiber.Ctx, dbBlog *models.Blog, dbPost *models.Post, errMsg string) error {
	title := "New Post"
	if dbPost != nil {
		title = "Edit Post"
	}

	nav := navigation.BlogTrail(title, dbBlog.Name, dashboard.Path+"/blogs/"+dbBlog.ID).
		AddBreadcrumb(title, "#", true)

	data := fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"User":       handler.CurrentUser(c),
		"Blog":       dbBlog,
		"Post":       dbPost,
	}

	if errMsg != "" {
		data["error"] = errMsg
	}

	return c.Render(TemplateName, data, handler.BaseLayout)
}
