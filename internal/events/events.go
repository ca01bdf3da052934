// Package events stores and retrieves raw tracking events. Every row is
// scoped to a project; analytics queries window rows by created_at.
package events

import (
	"time"
)

// Well-known event types. Callers may submit other type strings; the
// overview computation only consumes page_view rows.
const (
	EventTypePageView   = "page_view"
	EventTypeSession    = "session"
	EventTypeConversion = "conversion"
)

// TrackingEvent represents a single tracked event row.
type TrackingEvent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID string    `gorm:"index:idx_project_created;not null" json:"project_id"`
	EventType string    `gorm:"index;not null" json:"event_type"`
	VisitorID string    `gorm:"index" json:"visitor_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	PageURL   string    `json:"page_url,omitempty"`
	Referrer  string    `json:"referrer,omitempty"`
	Device    string    `json:"device,omitempty"`
	Browser   string    `json:"browser,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_project_created;not null" json:"created_at"`
}
