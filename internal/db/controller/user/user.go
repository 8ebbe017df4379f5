// Package user provides the credential store: sign up, sign in and lookups.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/db/models"
)

const (
	emailQueryPattern = "email = ?"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when signing up with an already registered email.
	ErrEmailTaken = errors.New("user already exists with this email")
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingFields is returned when required sign up fields are empty.
	ErrMissingFields = errors.New("email, name and password are required")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// SignUp creates a new user. The password is stored as an Argon2id hash,
// never verbatim.
func SignUp(db *gorm.DB, email, name, password string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if email == "" || name == "" || password == "" {
		return nil, ErrMissingFields
	}

	// Check if user already exists
	var existing models.User
	result := db.Where(emailQueryPattern, email).First(&existing)
	if result.Error == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, result.Error
	}

	newUser := &models.User{
		Email:    email,
		Name:     name,
		Password: models.HashPassword(password),
	}

	result = db.Create(newUser)
	if result.Error != nil {
		// the unique index on email is the authoritative uniqueness check
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}

		return nil, result.Error
	}

	return newUser, nil
}

// SignIn looks up a user by email and verifies the password hash.
// Unknown email and wrong password are indistinguishable to the caller.
func SignIn(db *gorm.DB, email, password string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var dbUser models.User
	result := db.Where(emailQueryPattern, email).First(&dbUser)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, result.Error
	}

	if !dbUser.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return &dbUser, nil
}

// GetByID retrieves a user by its ID.
func GetByID(db *gorm.DB, id string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var dbUser models.User
	result := db.Where("id = ?", id).First(&dbUser)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &dbUser, nil
}
