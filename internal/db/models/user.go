// Package models contains database model definitions.
package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// User represents a registered account. Users own blogs and authenticate
// with an email address and an Argon2id hashed password.
type User struct {
	// ID is the unique identifier for the user (UUID string).
	ID string `gorm:"primaryKey;size:36"`
	// Email is the unique address used for sign in.
	Email string `gorm:"unique;size:255;not null"`
	// Name is the display name shown in the dashboard header.
	Name string `gorm:"size:100;not null"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255;not null"`
	// CreatedAt is the timestamp when the user signed up (managed by GORM).
	CreatedAt time.Time
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return nil
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating user passwords.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
