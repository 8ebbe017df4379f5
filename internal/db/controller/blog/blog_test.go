package blog

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Blog{}, &models.Post{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}

	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	u := &models.User{Email: email, Name: "Test User", Password: models.HashPassword("secret123")}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return u
}

func TestCreate_AssignsDefaults(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner@example.com")

	created, err := Create(db, owner.ID, "My Blog", "my-blog", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID == "" {
		t.Error("Create() should assign a UUID")
	}

	if created.PrimaryColor != models.DefaultPrimaryColor {
		t.Errorf("PrimaryColor = %q, want %q", created.PrimaryColor, models.DefaultPrimaryColor)
	}

	if created.SecondaryColor != models.DefaultSecondaryColor {
		t.Errorf("SecondaryColor = %q, want %q", created.SecondaryColor, models.DefaultSecondaryColor)
	}

	if created.AccentColor != models.DefaultAccentColor {
		t.Errorf("AccentColor = %q, want %q", created.AccentColor, models.DefaultAccentColor)
	}
}

func TestCreate_MissingFields(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner@example.com")

	if _, err := Create(db, owner.ID, "", "my-blog", nil); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for empty name, got %v", err)
	}

	if _, err := Create(db, owner.ID, "My Blog", "", nil); !errors.Is(err, ErrMissingFields) {
		t.Errorf("expected ErrMissingFields for empty slug, got %v", err)
	}
}

func TestCreate_SlugTakenAcrossUsers(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner@example.com")
	other := newTestUser(t, db, "other@example.com")

	if _, err := Create(db, owner.ID, "My Blog", "my-blog", nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// slugs are globally unique, not per user
	if _, err := Create(db, other.ID, "Another Blog", "my-blog", nil); !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestForUser_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner@example.com")
	other := newTestUser(t, db, "other@example.com")

	first, err := Create(db, owner.ID, "First", "first", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	second, err := Create(db, owner.ID, "Second", "second", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := Create(db, other.ID, "Foreign", "foreign", nil); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// force distinct created_at timestamps, sqlite rounds them
	db.Model(first).Update("created_at", second.CreatedAt.Add(-time.Second))

	blogs, err := ForUser(db, owner.ID)
	if err != nil {
		t.Fatalf("ForUser() error = %v", err)
	}

	if len(blogs) != 2 {
		t.Fatalf("ForUser() returned %d blogs, want 2", len(blogs))
	}

	if blogs[0].Slug != "second" || blogs[1].Slug != "first" {
		t.Errorf("ForUser() order = [%s %s], want [second first]", blogs[0].Slug, blogs[1].Slug)
	}
}

func TestGetBySlug(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner@example.com")

	created, err := Create(db, owner.ID, "My Blog", "my-blog", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := GetBySlug(db, "my-blog")
	if err != nil {
		t.Fatalf("GetBySlug() error = %v", err)
	}

	if got.ID != created.ID {
		t.Errorf("GetBySlug() id = %q, want %q", got.ID, created.ID)
	}

	if _, err := GetBySlug(db, "missing"); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}
}

func TestUpdateColors(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner@example.com")

	created, err := Create(db, owner.ID, "My Blog", "my-blog", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := UpdateColors(db, created.ID, "#FF0000", "#00ff00", "#00f")
	if err != nil {
		t.Fatalf("UpdateColors() error = %v", err)
	}

	if updated.PrimaryColor != "#FF0000" || updated.SecondaryColor != "#00ff00" || updated.AccentColor != "#00f" {
		t.Errorf("UpdateColors() colors = %s/%s/%s",
			updated.PrimaryColor, updated.SecondaryColor, updated.AccentColor)
	}
}

func TestUpdateColors_Validation(t *testing.T) {
	db := newTestDB(t)
	owner := newTestUser(t, db, "owner@example.com")

	created, err := Create(db, owner.ID, "My Blog", "my-blog", nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name    string
		primary string
		wantErr error
	}{
		{"empty color", "", ErrMissingColors},
		{"missing hash", "FF0000", ErrBadColor},
		{"five digits", "#12345", ErrBadColor},
		{"non-hex digits", "#GG0000", ErrBadColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UpdateColors(db, created.ID, tt.primary, "#112233", "#445566"); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateColors() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := UpdateColors(db, "missing-id", "#112233", "#112233", "#112233"); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("expected ErrBlogNotFound, got %v", err)
	}
}

func TestIsHexColor(t *testing.T) {
	tests := []struct {
		color string
		want  bool
	}{
		{"#FF0000", true},
		{"#f00", true},
		{"#112233", true},
		{"#12345", false},
		{"#1234567", false},
		{"FF0000", false},
		{"#GGHHII", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsHexColor(tt.color); got != tt.want {
			t.Errorf("IsHexColor(%q) = %v, want %v", tt.color, got, tt.want)
		}
	}
}
