package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryList is a set of category labels stored as a JSON array in a text
// column. Membership matters, order does not.
type CategoryList []string

// Value serializes the list for storage.
func (c CategoryList) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}

	out, err := json.Marshal([]string(c))
	if err != nil {
		return nil, fmt.Errorf("marshal categories: %w", err)
	}

	return string(out), nil
}

// Scan deserializes the stored JSON array. Unparseable values degrade to an
// empty list instead of failing the row scan.
func (c *CategoryList) Scan(value any) error {
	var raw []byte

	switch v := value.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported categories column type %T", value)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		*c = nil
		return nil
	}

	*c = list

	return nil
}

// Contains reports set membership.
func (c CategoryList) Contains(label string) bool {
	for _, have := range c {
		if have == label {
			return true
		}
	}

	return false
}

// Post represents a content item belonging to one blog. The slug is unique
// within its blog; only published posts appear on public pages.
type Post struct {
	// ID is the unique identifier for the post (UUID string).
	ID string `gorm:"primaryKey;size:36"`
	// BlogID references the owning blog.
	BlogID string `gorm:"size:36;not null;index;uniqueIndex:idx_posts_blog_slug"`
	// Title of the post.
	Title string `gorm:"size:500;not null"`
	// Slug is unique per blog and forms the public URL (/blog/<blog>/<slug>).
	Slug string `gorm:"size:255;not null;uniqueIndex:idx_posts_blog_slug"`
	// Content is the optional HTML body.
	Content *string `gorm:"type:text"`
	// Excerpt is an optional teaser shown in listings.
	Excerpt *string `gorm:"size:2000"`
	// Published controls public visibility. Drafts stay dashboard-only.
	Published bool `gorm:"not null;default:false"`
	// FeaturedImageURL is an optional header image.
	FeaturedImageURL *string `gorm:"size:2000"`
	// CustomCSS is optional per-post styling injected into the public page.
	CustomCSS *string `gorm:"type:text"`
	// Categories holds the post's category labels.
	Categories CategoryList `gorm:"type:text"`
	// CreatedAt is the timestamp when the post was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the post was last updated (managed by GORM).
	UpdatedAt time.Time
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return nil
}
