package http

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/billing"
	"github.com/subham-proj/barelytics-server/internal/http/middleware"
	"github.com/subham-proj/barelytics-server/internal/users"
)

// AccountHandler serves account settings, password, plan and billing endpoints.
type AccountHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewAccountHandler(db *gorm.DB, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{db: db, logger: logger}
}

// GetSettings returns the current user's profile fields.
func (h *AccountHandler) GetSettings(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"company":   user.Company,
	})
}

type settingsRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
}

// UpdateSettings updates the current user's profile fields.
func (h *AccountHandler) UpdateSettings(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	updated, err := users.UpdateSettings(h.db, user.ID, req.FullName, req.Email, req.Company)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "User not found.")
		}
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"id":        updated.ID,
		"full_name": updated.FullName,
		"email":     updated.Email,
		"company":   updated.Company,
	})
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword verifies the current password before setting a new one.
func (h *AccountHandler) ChangePassword(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req passwordRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return errorJSON(c, fiber.StatusBadRequest, "current_password and new_password are required.")
	}

	if err := users.ChangePassword(h.db, user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			return errorJSON(c, fiber.StatusBadRequest, "Current password is incorrect.")
		}
		if errors.Is(err, users.ErrPasswordTooShort) {
			return errorJSON(c, fiber.StatusBadRequest, "Password must be at least 6 characters.")
		}
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully."})
}

// Delete soft-deletes the current user's account.
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	deactivated, err := users.Deactivate(h.db, user.ID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "User not found.")
		}
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	h.logger.Info("Account deactivated", slog.String("user_id", user.ID))
	return c.JSON(fiber.Map{"id": deactivated.ID, "is_active": deactivated.IsActive})
}

// GetPlan returns the current user's subscription plan.
func (h *AccountHandler) GetPlan(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	plan, err := users.GetPlan(h.db, user.ID)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"plan": plan})
}

type planRequest struct {
	Plan string `json:"plan"`
}

// UpdatePlan switches the current user to another plan in the catalog.
func (h *AccountHandler) UpdatePlan(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if !billing.IsValidPlan(req.Plan) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid plan.")
	}

	if err := users.UpdatePlan(h.db, user.ID, req.Plan); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Plan updated to %s.", req.Plan),
		"plan":    req.Plan,
	})
}

// InitiateUpgrade starts the payment flow for a plan upgrade.
func (h *AccountHandler) InitiateUpgrade(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req planRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if !billing.IsValidPlan(req.Plan) {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid plan.")
	}

	result, err := billing.TriggerUpgrade(user.ID, req.Plan)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(result)
}

type webhookRequest struct {
	EventType string `json:"event_type"`
}

// Webhook acknowledges payment provider notifications.
func (h *AccountHandler) Webhook(c *fiber.Ctx) error {
	var req webhookRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	result, err := billing.HandleWebhook(req.EventType)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(result)
}
