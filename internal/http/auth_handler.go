package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/auth"
	"github.com/subham-proj/barelytics-server/internal/users"
)

// AuthHandler serves signup and login.
type AuthHandler struct {
	db     *gorm.DB
	logger *slog.Logger
	auth   *auth.Manager
}

func NewAuthHandler(db *gorm.DB, logger *slog.Logger, manager *auth.Manager) *AuthHandler {
	return &AuthHandler{db: db, logger: logger, auth: manager}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Company  string `json:"company"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account and signs it in.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.Email == "" || req.Password == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Email and password are required.")
	}
	if len(req.Password) < users.MinPasswordLength {
		return errorJSON(c, fiber.StatusBadRequest, "Password must be at least 6 characters.")
	}

	user, err := users.Create(h.db, req.Email, req.Password, req.FullName, req.Company)
	if err != nil {
		if errors.Is(err, users.ErrUserExists) {
			return errorJSON(c, fiber.StatusBadRequest, "A user with this email already exists.")
		}
		h.logger.Error("Signup failed", slog.Any("error", err))
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		h.logger.Error("Failed to issue token after signup", slog.Any("error", err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create session.")
	}

	h.logger.Info("User signed up", slog.String("user_id", user.ID))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Signup successful.",
		"user":         user,
		"access_token": token,
	})
}

// Login verifies credentials and issues an access token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.Email == "" || req.Password == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Email and password are required.")
	}

	user, err := users.Authenticate(h.db, req.Email, req.Password)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid email or password.")
	}

	token, err := h.auth.IssueToken(user)
	if err != nil {
		h.logger.Error("Failed to issue token", slog.Any("error", err))
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create session.")
	}

	return c.JSON(fiber.Map{
		"message":      "Login successful.",
		"user":         user,
		"access_token": token,
	})
}
