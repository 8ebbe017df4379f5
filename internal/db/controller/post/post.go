// Package post provides CRUD operations and validated mutations for posts,
// including the public published-post queries with search and category
// filtering.
package post

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/db/models"
)

const (
	blogSlugJoin = "JOIN blogs ON blogs.id = posts.blog_id"
)

var (
	// ErrPostNotFound is returned when a post is not found.
	ErrPostNotFound = errors.New("post not found")
	// ErrMissingFields is returned when blog ID, title or slug are empty.
	ErrMissingFields = errors.New("blog ID, title and slug are required")
	// ErrSlugTaken is returned when the slug is already used within the blog.
	ErrSlugTaken = errors.New("a post with this URL slug already exists in this blog")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Fields bundles the optional and flag attributes of a post mutation.
type Fields struct {
	Content          *string
	Excerpt          *string
	Published        bool
	FeaturedImageURL *string
	CustomCSS        *string
	Categories       models.CategoryList
}

// HasCategoriesColumn probes whether the posts table carries the categories
// column. Older data layouts predate it; callers branch to a reduced-feature
// path instead of pattern-matching backend error codes.
func HasCategoriesColumn(db *gorm.DB) bool {
	if db == nil {
		return false
	}

	return db.Migrator().HasColumn(&models.Post{}, "categories")
}

// ForBlog retrieves all posts of a blog, drafts included, newest first.
func ForBlog(db *gorm.DB, blogID string) ([]models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var posts []models.Post
	result := db.Where("blog_id = ?", blogID).Order("created_at DESC").Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}

	return posts, nil
}

// Published retrieves the published posts of a blog identified by its slug,
// newest first. A non-empty search term matches case-insensitively against
// title, content or excerpt. A non-empty category set keeps posts carrying
// at least one of the requested labels.
//
// When the categories column is absent the category filter is silently
// dropped and the search filter is applied in application code so the query
// keeps working against older data layouts.
func Published(db *gorm.DB, blogSlug, search string, categories []string) ([]models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	// posts.* keeps the blog's identically named columns out of the scan
	base := db.Select("posts.*").
		Joins(blogSlugJoin).
		Where("blogs.slug = ? AND posts.published = ?", blogSlug, true).
		Order("posts.created_at DESC")

	if len(categories) > 0 && !HasCategoriesColumn(db) {
		var posts []models.Post
		if err := base.Find(&posts).Error; err != nil {
			return nil, err
		}

		return filterBySearch(posts, search), nil
	}

	tx := base

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		tx = tx.Where(
			"(LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(posts.excerpt) LIKE ?)",
			like,
			like,
			like,
		)
	}

	if len(categories) > 0 {
		conds := make([]string, 0, len(categories))
		args := make([]any, 0, len(categories))

		for _, label := range categories {
			conds = append(conds, "posts.categories LIKE ?")
			args = append(args, `%"`+label+`"%`)
		}

		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	var posts []models.Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}

// filterBySearch is the application-side fallback for the search filter.
func filterBySearch(posts []models.Post, search string) []models.Post {
	if search == "" {
		return posts
	}

	needle := strings.ToLower(search)
	out := make([]models.Post, 0, len(posts))

	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			(p.Content != nil && strings.Contains(strings.ToLower(*p.Content), needle)) ||
			(p.Excerpt != nil && strings.Contains(strings.ToLower(*p.Excerpt), needle)) {
			out = append(out, p)
		}
	}

	return out
}

// Categories retrieves the sorted set of distinct category labels across a
// blog's published posts. The set is empty when the categories column is
// absent.
func Categories(db *gorm.DB, blogSlug string) ([]string, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !HasCategoriesColumn(db) {
		return []string{}, nil
	}

	var posts []models.Post
	result := db.Select("posts.categories").
		Joins(blogSlugJoin).
		Where("blogs.slug = ? AND posts.published = ?", blogSlug, true).
		Find(&posts)
	if result.Error != nil {
		return nil, result.Error
	}

	seen := make(map[string]struct{})
	for _, p := range posts {
		for _, label := range p.Categories {
			seen[label] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for label := range seen {
		out = append(out, label)
	}

	sort.Strings(out)

	return out, nil
}

// GetPublished retrieves a single published post by blog slug and post slug.
// Drafts are treated as absent.
func GetPublished(db *gorm.DB, blogSlug, postSlug string) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var dbPost models.Post
	result := db.Select("posts.*").
		Joins(blogSlugJoin).
		Where("blogs.slug = ? AND posts.slug = ? AND posts.published = ?", blogSlug, postSlug, true).
		First(&dbPost)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}

		return nil, result.Error
	}

	return &dbPost, nil
}

// GetByID retrieves a post by its ID, drafts included.
func GetByID(db *gorm.DB, id string) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var dbPost models.Post
	result := db.Where("id = ?", id).First(&dbPost)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}

		return nil, result.Error
	}

	return &dbPost, nil
}

// Create validates and inserts a new post. The slug must be unique within
// the blog; the composite unique index is the authoritative check and its
// violation maps to the same ErrSlugTaken as the pre-check.
func Create(db *gorm.DB, blogID, title, slug string, fields Fields) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if blogID == "" || title == "" || slug == "" {
		return nil, ErrMissingFields
	}

	var existing models.Post
	result := db.Select("id").Where("blog_id = ? AND slug = ?", blogID, slug).First(&existing)
	if result.Error == nil {
		return nil, ErrSlugTaken
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	newPost := &models.Post{
		BlogID:           blogID,
		Title:            title,
		Slug:             slug,
		Content:          fields.Content,
		Excerpt:          fields.Excerpt,
		Published:        fields.Published,
		FeaturedImageURL: fields.FeaturedImageURL,
		CustomCSS:        fields.CustomCSS,
		Categories:       fields.Categories,
	}

	result = db.Create(newPost)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}

		return nil, result.Error
	}

	return newPost, nil
}

// Update resolves the post, checks the new slug against its siblings
// (excluding the post itself) and saves the changed fields, stamping
// UpdatedAt.
func Update(db *gorm.DB, postID, title, slug string, fields Fields) (*models.Post, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if title == "" || slug == "" {
		return nil, ErrMissingFields
	}

	dbPost, err := GetByID(db, postID)
	if err != nil {
		return nil, err
	}

	var existing models.Post
	result := db.Select("id").
		Where("blog_id = ? AND slug = ? AND id <> ?", dbPost.BlogID, slug, postID).
		First(&existing)
	if result.Error == nil {
		return nil, ErrSlugTaken
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	dbPost.Title = title
	dbPost.Slug = slug
	dbPost.Content = fields.Content
	dbPost.Excerpt = fields.Excerpt
	dbPost.Published = fields.Published
	dbPost.FeaturedImageURL = fields.FeaturedImageURL
	dbPost.CustomCSS = fields.CustomCSS
	dbPost.Categories = fields.Categories
	dbPost.UpdatedAt = time.Now()

	result = db.Save(dbPost)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}

		return nil, result.Error
	}

	return dbPost, nil
}

// ParseCategories decodes a serialized category list submitted by the post
// editor. A parse failure degrades to an empty set rather than failing the
// whole mutation.
func ParseCategories(raw string) models.CategoryList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil
	}

	out := make(models.CategoryList, 0, len(list))
	for _, label := range list {
		label = strings.TrimSpace(label)
		if label != "" && !out.Contains(label) {
			out = append(out, label)
		}
	}

	return out
}
