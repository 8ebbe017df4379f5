// Package blog provides CRUD operations and validated mutations for blogs.
package blog

import (
	"errors"
	"regexp"
	"time"

	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/db/models"
)

const (
	slugQueryPattern = "slug = ?"
	idQueryPattern   = "id = ?"
)

// hexColorPattern accepts exactly 3- or 6-digit hex colors.
var hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// IsHexColor reports whether s is a 3- or 6-digit hex color string.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}

var (
	// ErrBlogNotFound is returned when a blog is not found.
	ErrBlogNotFound = errors.New("blog not found")
	// ErrMissingFields is returned when name or slug are empty.
	ErrMissingFields = errors.New("name and slug are required")
	// ErrSlugTaken is returned when the slug is already used by another blog.
	ErrSlugTaken = errors.New("a blog with this URL slug already exists")
	// ErrMissingColors is returned when a theme color field is empty.
	ErrMissingColors = errors.New("all color fields are required")
	// ErrBadColor is returned when a theme color is not a 3- or 6-digit hex string.
	ErrBadColor = errors.New("invalid hex color format")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// ForUser retrieves all blogs owned by the user, newest first.
func ForUser(db *gorm.DB, userID string) ([]models.Blog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var blogs []models.Blog
	result := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&blogs)
	if result.Error != nil {
		return nil, result.Error
	}

	return blogs, nil
}

// GetByID retrieves a blog by its ID.
func GetByID(db *gorm.DB, id string) (*models.Blog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var dbBlog models.Blog
	result := db.Where(idQueryPattern, id).First(&dbBlog)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}

		return nil, result.Error
	}

	return &dbBlog, nil
}

// GetBySlug retrieves a blog by its public slug.
func GetBySlug(db *gorm.DB, slug string) (*models.Blog, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var dbBlog models.Blog
	result := db.Where(slugQueryPattern, slug).First(&dbBlog)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}

		return nil, result.Error
	}

	return &dbBlog, nil
}

// Create validates and inserts a new blog with default theme colors.
// The pre-check gives a friendly error early; the unique index on slug is
// the authoritative uniqueness check and its violation maps to the same
// ErrSlugTaken.
func Create(db *gorm.DB, userID, name, slug string, description *string) (*models.Blog, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" || slug == "" {
		return nil, ErrMissingFields
	}

	var existing models.Blog
	result := db.Select("id").Where(slugQueryPattern, slug).First(&existing)
	if result.Error == nil {
		return nil, ErrSlugTaken
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	newBlog := &models.Blog{
		UserID:      userID,
		Name:        name,
		Slug:        slug,
		Description: description,
	}

	result = db.Create(newBlog)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}

		return nil, result.Error
	}

	return newBlog, nil
}

// UpdateColors validates and updates the blog's three theme colors and
// stamps UpdatedAt.
func UpdateColors(db *gorm.DB, id, primary, secondary, accent string) (*models.Blog, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if primary == "" || secondary == "" || accent == "" {
		return nil, ErrMissingColors
	}

	for _, color := range []string{primary, secondary, accent} {
		if !hexColorPattern.MatchString(color) {
			return nil, ErrBadColor
		}
	}

	dbBlog, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	dbBlog.PrimaryColor = primary
	dbBlog.SecondaryColor = secondary
	dbBlog.AccentColor = accent
	dbBlog.UpdatedAt = time.Now()

	result := db.Save(dbBlog)
	if result.Error != nil {
		return nil, result.Error
	}

	return dbBlog, nil
}
