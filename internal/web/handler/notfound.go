package handler

import (
	"github.com/gofiber/fiber/v2"
)

// NotFoundTemplate is the shared 404 page template.
const NotFoundTemplate = "notfound"

// RenderNotFound renders the shared 404 page with the proper status code.
func RenderNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).Render(NotFoundTemplate, fiber.Map{}, BaseLayout)
}
