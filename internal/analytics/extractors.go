package analytics

import (
	"math"
	"time"

	"github.com/subham-proj/barelytics-server/internal/events"
)

// UniqueVisitorCount returns the number of distinct non-empty visitor IDs in rows.
func UniqueVisitorCount(rows []events.TrackingEvent) int64 {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if row.VisitorID == "" {
			continue
		}
		seen[row.VisitorID] = struct{}{}
	}
	return int64(len(seen))
}

// PageViewCount returns the number of page view rows.
func PageViewCount(rows []events.TrackingEvent) int64 {
	var count int64
	for _, row := range rows {
		if row.EventType == events.EventTypePageView {
			count++
		}
	}
	return count
}

type sessionSpan struct {
	first time.Time
	last  time.Time
	count int
}

// AverageSessionDuration returns the mean session length in minutes.
// A session's duration is the gap between its first and last row; sessions
// with a single row carry no duration signal and do not count at all.
func AverageSessionDuration(rows []events.TrackingEvent) float64 {
	spans := make(map[string]*sessionSpan)
	for _, row := range rows {
		if row.SessionID == "" {
			continue
		}
		span, ok := spans[row.SessionID]
		if !ok {
			spans[row.SessionID] = &sessionSpan{first: row.CreatedAt, last: row.CreatedAt, count: 1}
			continue
		}
		if row.CreatedAt.Before(span.first) {
			span.first = row.CreatedAt
		}
		if row.CreatedAt.After(span.last) {
			span.last = row.CreatedAt
		}
		span.count++
	}

	var total float64
	var qualifying int
	for _, span := range spans {
		if span.count < 2 {
			continue
		}
		total += span.last.Sub(span.first).Minutes()
		qualifying++
	}
	if qualifying == 0 {
		return 0
	}
	return total / float64(qualifying)
}

// BounceRate returns the percentage of visitors with exactly one row in the window.
func BounceRate(rows []events.TrackingEvent) float64 {
	perVisitor := make(map[string]int, len(rows))
	for _, row := range rows {
		if row.VisitorID == "" {
			continue
		}
		perVisitor[row.VisitorID]++
	}
	if len(perVisitor) == 0 {
		return 0
	}

	var bounced int
	for _, count := range perVisitor {
		if count == 1 {
			bounced++
		}
	}
	return float64(bounced) / float64(len(perVisitor)) * 100
}

// PercentChange returns the period-over-period delta between two values.
// A previous of zero reads as +100% growth when anything showed up at all.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}

// Round2 rounds to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
