package user

import (
	"errors"
	"testing"

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

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate user model: %v", err)
	}

	return db
}

func TestSignUp(t *testing.T) {
	db := newTestDB(t)

	created, err := SignUp(db, "alice@example.com", "Alice", "secret123")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if created.ID == "" {
		t.Error("SignUp() should assign a UUID")
	}

	if created.Password == "secret123" {
		t.Error("SignUp() must not store the password verbatim")
	}

	if !created.VerifyPassword("secret123") {
		t.Error("stored hash should verify the original password")
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)

	if _, err := SignUp(db, "alice@example.com", "Alice", "secret123"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	_, err := SignUp(db, "alice@example.com", "Other Alice", "different")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignUp_MissingFields(t *testing.T) {
	db := newTestDB(t)

	tests := []struct {
		name     string
		email    string
		userName string
		password string
	}{
		{"empty email", "", "Alice", "secret123"},
		{"empty name", "alice@example.com", "", "secret123"},
		{"empty password", "alice@example.com", "Alice", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := SignUp(db, tt.email, tt.userName, tt.password); !errors.Is(err, ErrMissingFields) {
				t.Errorf("expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	db := newTestDB(t)

	if _, err := SignUp(db, "bob@example.com", "Bob", "s3cr3t-pass"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	got, err := SignIn(db, "bob@example.com", "s3cr3t-pass")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	if got.Email != "bob@example.com" {
		t.Errorf("SignIn() email = %q, want %q", got.Email, "bob@example.com")
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	db := newTestDB(t)

	if _, err := SignUp(db, "bob@example.com", "Bob", "s3cr3t-pass"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if _, err := SignIn(db, "bob@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// unknown email must be indistinguishable from a wrong password
	if _, err := SignIn(db, "nobody@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestGetByID(t *testing.T) {
	db := newTestDB(t)

	created, err := SignUp(db, "carol@example.com", "Carol", "secret123")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	got, err := GetByID(db, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.Email != created.Email {
		t.Errorf("GetByID() email = %q, want %q", got.Email, created.Email)
	}

	if _, err := GetByID(db, "missing-id"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestNilDB(t *testing.T) {
	if _, err := SignUp(nil, "a@example.com", "A", "secret123"); !errors.Is(err, ErrDBNil) {
		t.Errorf("SignUp(nil) expected ErrDBNil, got %v", err)
	}

	if _, err := SignIn(nil, "a@example.com", "secret123"); !errors.Is(err, ErrDBNil) {
		t.Errorf("SignIn(nil) expected ErrDBNil, got %v", err)
	}

	if _, err := GetByID(nil, "id"); !errors.Is(err, ErrDBNil) {
		t.Errorf("GetByID(nil) expected ErrDBNil, got %v", err)
	}
}
