// Package http contains the fiber handlers backing the JSON API.
package http

import (
	"github.com/gofiber/fiber/v2"
)

// errorJSON writes the API's uniform error body.
func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
