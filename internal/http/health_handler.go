package http

import (
	"github.com/gofiber/fiber/v2"
)

// HealthIndexAction reports that the API is up.
func HealthIndexAction(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"message": "API is healthy",
	})
}
