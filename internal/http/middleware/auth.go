// Package middleware holds the request filters shared by authenticated routes.
package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/auth"
	"github.com/subham-proj/barelytics-server/internal/users"
)

const currentUserKey = "current_user"

// RequireAuth validates the bearer token and loads the account behind it.
// Requests without a valid token for an active user get a 401.
func RequireAuth(db *gorm.DB, manager *auth.Manager, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.TokenFromRequest(c)
		if token == "" {
			return unauthorized(c)
		}

		claims, err := manager.ValidateToken(token)
		if err != nil {
			return unauthorized(c)
		}

		user, err := users.FindByID(db, claims.Subject)
		if err != nil {
			logger.Warn("Token subject not found", slog.String("user_id", claims.Subject))
			return unauthorized(c)
		}
		if !user.IsActive {
			return unauthorized(c)
		}

		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the account loaded by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *users.User {
	user, _ := c.Locals(currentUserKey).(*users.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Invalid or expired access token.",
	})
}
