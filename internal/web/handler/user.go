package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inkpress/inkpress/internal/db/models"
)

// CurrentUser returns the session user placed into fiber.Locals by the auth
// middleware, or nil when the request is anonymous.
func CurrentUser(c *fiber.Ctx) *models.User {
	sessionUser, ok := c.Locals(CurrentUserLocal).(*models.User)
	if !ok {
		return nil
	}

	return sessionUser
}
