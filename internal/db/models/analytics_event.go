package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageType classifies which kind of page a view was recorded on.
type PageType string

const (
	// PageTypeBlogHome is a view of a blog's public home page.
	PageTypeBlogHome PageType = "blog_home"
	// PageTypePost is a view of a single public post page.
	PageTypePost PageType = "post"
	// PageTypeAbout is a view of a blog's about page.
	PageTypeAbout PageType = "about"
)

// AnalyticsEvent is one recorded page view. Rows are append-only and only
// weakly reference blogs and posts: queries join against current rows and
// silently drop orphans.
type AnalyticsEvent struct {
	// ID is the unique identifier for the event (UUID string).
	ID string `gorm:"primaryKey;size:36"`
	// BlogID references the viewed blog.
	BlogID string `gorm:"size:36;index;not null"`
	// PostID references the viewed post, nil for non-post pages.
	PostID *string `gorm:"size:36;index"`
	// PageType is blog_home, post or about.
	PageType PageType `gorm:"type:varchar(20);not null"`
	// VisitorIP is the best-effort client address ("unknown" when absent).
	VisitorIP string `gorm:"size:64"`
	// UserAgent is the raw User-Agent header.
	UserAgent string `gorm:"size:1000"`
	// Referrer is the raw Referer header.
	Referrer string `gorm:"size:2000"`
	// CreatedAt is the view timestamp (managed by GORM).
	CreatedAt time.Time `gorm:"index"`
}

// TableName keeps the short table name used by the analytics queries.
func (AnalyticsEvent) TableName() string {
	return "analytics"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (e *AnalyticsEvent) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	return nil
}
