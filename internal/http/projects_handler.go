package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/http/middleware"
	"github.com/subham-proj/barelytics-server/internal/projects"
)

// ProjectsHandler serves project CRUD for the authenticated owner.
type ProjectsHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewProjectsHandler(db *gorm.DB, logger *slog.Logger) *ProjectsHandler {
	return &ProjectsHandler{db: db, logger: logger}
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create registers a new project under the current user.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.Name == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Project name is required.")
	}

	project, err := projects.Create(h.db, user.ID, req.Name, req.Description)
	if err != nil {
		if errors.Is(err, projects.ErrProjectLimitReached) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error("Failed to create project", slog.Any("error", err))
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

// List returns the current user's projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	list, err := projects.ListByUser(h.db, user.ID)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(list)
}

// Update renames or redescribes an owned project.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id := c.Params("id")

	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	project, err := projects.Update(h.db, id, user.ID, req.Name, req.Description)
	if err != nil {
		var notFound *projects.ProjectNotFoundError
		if errors.As(err, &notFound) {
			return errorJSON(c, fiber.StatusNotFound, "Project not found or not owned by user.")
		}
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(project)
}

// Delete removes an owned project and its events.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id := c.Params("id")
	if id == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Project id is required.")
	}

	if err := projects.Delete(h.db, id, user.ID); err != nil {
		var notFound *projects.ProjectNotFoundError
		if errors.As(err, &notFound) {
			// Deleting something already gone is not an error to the caller.
			return c.JSON(fiber.Map{"message": "Project deleted successfully."})
		}
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"message": "Project deleted successfully."})
}

// GetConfig returns a project's tracking configuration. This endpoint backs
// the tracker snippet and is not scoped to the owner.
func (h *ProjectsHandler) GetConfig(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := projects.GetByID(h.db, id); err != nil {
		var notFound *projects.ProjectNotFoundError
		if errors.As(err, &notFound) {
			return errorJSON(c, fiber.StatusNotFound, notFound.Error())
		}
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	cfg, err := projects.GetConfig(h.db, id)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(cfg)
}

type projectConfigRequest struct {
	TrackPageviews   *bool  `json:"track_pageviews"`
	TrackSessions    *bool  `json:"track_sessions"`
	TrackConversions *bool  `json:"track_conversions"`
	AllowedOrigins   string `json:"allowed_origins"`
}

// UpdateConfig changes an owned project's tracking configuration.
func (h *ProjectsHandler) UpdateConfig(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	id := c.Params("id")

	var req projectConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}

	current, err := projects.GetConfig(h.db, id)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	next := *current
	if req.TrackPageviews != nil {
		next.TrackPageviews = *req.TrackPageviews
	}
	if req.TrackSessions != nil {
		next.TrackSessions = *req.TrackSessions
	}
	if req.TrackConversions != nil {
		next.TrackConversions = *req.TrackConversions
	}
	if req.AllowedOrigins != "" {
		next.AllowedOrigins = req.AllowedOrigins
	}

	updated, err := projects.UpdateConfig(h.db, id, user.ID, next)
	if err != nil {
		var notFound *projects.ProjectNotFoundError
		if errors.As(err, &notFound) {
			return errorJSON(c, fiber.StatusNotFound, "Project not found or not owned by user.")
		}
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(updated)
}
