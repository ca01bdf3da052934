package events

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EventFilters represents filtering options for event listing
type EventFilters struct {
	ProjectID string
	EventType string
	Limit     int
	Offset    int
}

// EventsResult represents a paginated events result
type EventsResult struct {
	Events []TrackingEvent
	Total  int64
}

// ListByProject retrieves filtered and paginated events, newest first.
func ListByProject(db *gorm.DB, filters EventFilters) (EventsResult, error) {
	query := db.Model(&TrackingEvent{}).Where("project_id = ?", filters.ProjectID)

	if filters.EventType != "" {
		query = query.Where("event_type = ?", filters.EventType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return EventsResult{}, fmt.Errorf("failed to count events: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 100
	}

	var list []TrackingEvent
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(filters.Offset).
		Find(&list).Error; err != nil {
		return EventsResult{}, fmt.Errorf("failed to list events: %w", err)
	}

	return EventsResult{Events: list, Total: total}, nil
}

// PageViewsInTimeRange fetches the page view rows metric extractors work
// over, projected down to the columns they actually read.
func PageViewsInTimeRange(db *gorm.DB, projectID string, from, to time.Time) ([]TrackingEvent, error) {
	var rows []TrackingEvent
	err := db.Model(&TrackingEvent{}).
		Select("visitor_id, session_id, event_type, created_at").
		Where("project_id = ? AND event_type = ? AND created_at BETWEEN ? AND ?",
			projectID, EventTypePageView, from, to).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page views: %w", err)
	}
	return rows, nil
}

// CountInTimeRange counts events for a project in a time range.
func CountInTimeRange(db *gorm.DB, projectID string, from, to time.Time) (int64, error) {
	var count int64
	err := db.Model(&TrackingEvent{}).
		Where("project_id = ? AND created_at BETWEEN ? AND ?", projectID, from, to).
		Count(&count).Error
	return count, err
}
