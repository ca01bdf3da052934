package events

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/projects"
)

// Validation errors for event ingestion.
var (
	ErrMissingProjectID = errors.New("project_id and event_type are required")
	ErrTrackingDisabled = errors.New("tracking is disabled for this event type")
)

// CollectEventInput carries a raw event submitted by a tracking client
// plus the request context used for enrichment.
type CollectEventInput struct {
	ProjectID string
	EventType string
	VisitorID string
	SessionID string
	PageURL   string
	Referrer  string
	Device    string
	Browser   string
	Country   string
	UserAgent string
	IPAddress string
	Timestamp time.Time
}

// Collect validates, enriches, and stores one tracking event. The project
// must exist and its configuration must allow the event type. Device and
// browser fall back to User-Agent parsing, country to GeoIP, when the
// client did not supply them.
func Collect(db *gorm.DB, logger *slog.Logger, input CollectEventInput) (*TrackingEvent, error) {
	if input.ProjectID == "" || input.EventType == "" {
		return nil, ErrMissingProjectID
	}

	if _, err := projects.GetByID(db, input.ProjectID); err != nil {
		return nil, err
	}

	cfg, err := projects.GetConfig(db, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !cfg.AllowsEventType(input.EventType) {
		return nil, ErrTrackingDisabled
	}

	device, browser := input.Device, input.Browser
	if (device == "" || browser == "") && input.UserAgent != "" {
		parsed := ParseUserAgent(input.UserAgent)
		if device == "" {
			device = parsed.Device
		}
		if browser == "" {
			browser = parsed.Browser
		}
	}

	country := input.Country
	if country == "" && input.IPAddress != "" {
		country = CountryForIP(logger, input.IPAddress)
	}

	timestamp := input.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	event := &TrackingEvent{
		ProjectID: input.ProjectID,
		EventType: input.EventType,
		VisitorID: input.VisitorID,
		SessionID: input.SessionID,
		PageURL:   input.PageURL,
		Referrer:  input.Referrer,
		Device:    device,
		Browser:   browser,
		Country:   country,
		CreatedAt: timestamp,
	}

	if err := db.Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}

	logger.Debug("Collected event",
		slog.String("project_id", event.ProjectID),
		slog.String("event_type", event.EventType))

	return event, nil
}
