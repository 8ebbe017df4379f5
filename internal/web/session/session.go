// Package session manages the user-id session cookie.
//
// The cookie holds the signed-in user's id and is resolved against the
// users table on every request; a cookie referencing a vanished user simply
// counts as "no session".
package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/db/controller/user"
	"github.com/inkpress/inkpress/internal/db/models"
)

// CookieName is the name of the session cookie.
const CookieName = "user_id"

// DefaultExpiry is used when the configured session expiry is zero.
const DefaultExpiry = 7 * 24 * time.Hour

// Set issues the session cookie for the given user id. The cookie is
// http-only and SameSite=Lax; Secure is dropped in dev mode so plain http
// works locally.
func Set(c *fiber.Ctx, userID string, expiry time.Duration, devMode bool) {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}

	cookie := &fiber.Cookie{
		Name:     CookieName,
		Value:    userID,
		MaxAge:   int(expiry.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if devMode {
		cookie.Secure = false
	}

	c.Cookie(cookie)
}

// User resolves the session cookie to a user record. It returns nil without
// an error when no cookie is set or the referenced user no longer exists.
func User(c *fiber.Ctx, db *gorm.DB) (*models.User, error) {
	userID := c.Cookies(CookieName)
	if userID == "" {
		return nil, nil
	}

	sessionUser, err := user.GetByID(db, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return sessionUser, nil
}

// Clear deletes the session cookie.
func Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})
}
