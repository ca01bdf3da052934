package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/subham-proj/barelytics-server/internal/billing"
)

// RequirePlan rejects requests from accounts below the required plan tier.
// Runs after RequireAuth.
func RequirePlan(requiredPlan string) fiber.Handler {
	caser := cases.Title(language.AmericanEnglish)

	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return unauthorized(c)
		}

		userPlan := user.Plan
		if userPlan == "" {
			userPlan = billing.PlanFree
		}
		if !billing.IsValidPlan(userPlan) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid user plan.",
			})
		}
		if !billing.Allows(userPlan, requiredPlan) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": fmt.Sprintf("This feature requires the %s plan.", caser.String(requiredPlan)),
			})
		}
		return c.Next()
	}
}
