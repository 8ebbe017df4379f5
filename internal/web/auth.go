package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inkpress/inkpress/internal/web/handler"
	"github.com/inkpress/inkpress/internal/web/handler/signin"
	"github.com/inkpress/inkpress/internal/web/session"
)

// NewAuthMiddleware returns a Fiber middleware that resolves the session
// cookie. Signed-in users land in fiber.Locals for every route; dashboard
// routes redirect anonymous visitors to the sign-in page, and the auth
// pages redirect signed-in users back to the dashboard.
func NewAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := strings.ToLower(c.Path())

		if strings.HasPrefix(path, "/static") || strings.HasPrefix(path, "/metrics") ||
			strings.HasPrefix(path, "/healthz") {
			return c.Next()
		}

		sessionUser, err := session.User(c, db)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve session")
		}

		if sessionUser != nil {
			c.Locals(handler.CurrentUserLocal, sessionUser)

			if isAuthPage(path) {
				return c.Redirect("/dashboard")
			}

			return c.Next()
		}

		if strings.HasPrefix(path, "/dashboard") {
			return c.Redirect(signin.Path)
		}

		return c.Next()
	}
}

// isAuthPage checks if the current request is for the sign-in or sign-up page.
func isAuthPage(path string) bool {
	return strings.HasPrefix(path, "/signin") || strings.HasPrefix(path, "/signup")
}
