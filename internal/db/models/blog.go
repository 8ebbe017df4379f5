package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default theme colors assigned to newly created blogs.
const (
	DefaultPrimaryColor   = "#3b82f6"
	DefaultSecondaryColor = "#1f2937"
	DefaultAccentColor    = "#10b981"
)

// Blog represents a tenant's publishing site. The slug is globally unique
// and forms the public URL (/blog/<slug>). Theme colors are hex strings
// applied to the public pages.
type Blog struct {
	// ID is the unique identifier for the blog (UUID string).
	ID string `gorm:"primaryKey;size:36"`
	// UserID references the owning user. Only the owner may mutate the blog.
	UserID string `gorm:"size:36;index;not null"`
	// Name is the display name of the blog.
	Name string `gorm:"size:255;not null"`
	// Slug is the globally unique URL identifier.
	Slug string `gorm:"unique;size:255;not null"`
	// Description is an optional tagline shown on the public blog page.
	Description *string `gorm:"size:1000"`
	// PrimaryColor is the main theme color (hex string).
	PrimaryColor string `gorm:"size:7;not null;default:'#3b82f6'"`
	// SecondaryColor is the secondary theme color (hex string).
	SecondaryColor string `gorm:"size:7;not null;default:'#1f2937'"`
	// AccentColor is the accent theme color (hex string).
	AccentColor string `gorm:"size:7;not null;default:'#10b981'"`
	// Posts are deleted together with the blog (storage-layer cascade).
	Posts []Post `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the blog was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the blog was last updated (managed by GORM).
	UpdatedAt time.Time
}

// BeforeCreate assigns a UUID primary key and default theme colors.
func (b *Blog) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	if b.PrimaryColor == "" {
		b.PrimaryColor = DefaultPrimaryColor
	}

	if b.SecondaryColor == "" {
		b.SecondaryColor = DefaultSecondaryColor
	}

	if b.AccentColor == "" {
		b.AccentColor = DefaultAccentColor
	}

	return nil
}
