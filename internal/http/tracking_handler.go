package http

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/events"
	"github.com/subham-proj/barelytics-server/internal/projects"
)

// TrackingHandler serves the public event ingestion surface.
type TrackingHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewTrackingHandler(db *gorm.DB, logger *slog.Logger) *TrackingHandler {
	return &TrackingHandler{db: db, logger: logger}
}

type trackRequest struct {
	ProjectID string    `json:"project_id"`
	EventType string    `json:"event_type"`
	VisitorID string    `json:"visitor_id"`
	SessionID string    `json:"session_id"`
	PageURL   string    `json:"page_url"`
	Referrer  string    `json:"referrer"`
	Device    string    `json:"device"`
	Browser   string    `json:"browser"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// Track ingests a single event from a client site.
func (h *TrackingHandler) Track(c *fiber.Ctx) error {
	var req trackRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body.")
	}
	if req.ProjectID == "" || req.EventType == "" {
		return errorJSON(c, fiber.StatusBadRequest, "project_id and event_type are required.")
	}

	event, err := events.Collect(h.db, h.logger, events.CollectEventInput{
		ProjectID: req.ProjectID,
		EventType: req.EventType,
		VisitorID: req.VisitorID,
		SessionID: req.SessionID,
		PageURL:   req.PageURL,
		Referrer:  req.Referrer,
		Device:    req.Device,
		Browser:   req.Browser,
		Country:   req.Country,
		UserAgent: c.Get(fiber.HeaderUserAgent),
		IPAddress: c.IP(),
		Timestamp: req.CreatedAt,
	})
	if err != nil {
		var notFound *projects.ProjectNotFoundError
		if errors.As(err, &notFound) {
			return errorJSON(c, fiber.StatusBadRequest, notFound.Error())
		}
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(event)
}

// GetEvents lists a project's events, newest first.
func (h *TrackingHandler) GetEvents(c *fiber.Ctx) error {
	projectID := c.Query("project_id")
	if projectID == "" {
		return errorJSON(c, fiber.StatusBadRequest, "project_id is required as a query parameter.")
	}

	result, err := events.ListByProject(h.db, events.EventFilters{
		ProjectID: projectID,
		EventType: c.Query("event_type"),
		Limit:     c.QueryInt("limit"),
		Offset:    c.QueryInt("offset"),
	})
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(result.Events)
}
