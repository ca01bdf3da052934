package analytics

import (
	"fmt"

	"gorm.io/gorm"
)

// VisitorSplit partitions the window's visitors by whether their first-ever
// event fell inside the window.
type VisitorSplit struct {
	NewVisitors       int64 `json:"new_visitors"`
	ReturningVisitors int64 `json:"returning_visitors"`
}

// GetNewVsReturningVisitors classifies the window's visitors as new or
// returning based on the timestamp of their first event on record.
func GetNewVsReturningVisitors(db *gorm.DB, params ProjectScopedQueryParams) (*VisitorSplit, error) {
	var result VisitorSplit

	query := `
    WITH first_seen AS (
        SELECT visitor_id, MIN(created_at) AS first_event_at
        FROM tracking_events
        WHERE project_id = ?
        AND visitor_id != ''
        GROUP BY visitor_id
    ),
    in_window AS (
        SELECT DISTINCT visitor_id
        FROM tracking_events
        WHERE project_id = ?
        AND visitor_id != ''
        AND created_at BETWEEN ? AND ?
    )
    SELECT
        COALESCE(SUM(CASE WHEN fs.first_event_at >= ? THEN 1 ELSE 0 END), 0) AS new_visitors,
        COALESCE(SUM(CASE WHEN fs.first_event_at < ? THEN 1 ELSE 0 END), 0) AS returning_visitors
    FROM in_window iw
    JOIN first_seen fs ON fs.visitor_id = iw.visitor_id`

	from := params.Period.From.UTC()
	to := params.Period.To.UTC()
	err := db.Raw(query,
		params.ProjectID,
		params.ProjectID, from, to,
		from,
		from,
	).Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get visitor split: %w", err)
	}
	return &result, nil
}

// ConversionRate holds a window's conversion metrics with the delta against
// the previous window.
type ConversionRate struct {
	Rate          float64 `json:"rate"`
	PercentChange float64 `json:"percent_change"`
	Conversions   int64   `json:"conversions"`
	Visitors      int64   `json:"visitors"`
}

// GetConversionRate computes converting visitors as a share of all visitors
// for the current window, with a period-over-period delta.
func GetConversionRate(db *gorm.DB, currentParams, previousParams ProjectScopedQueryParams) (*ConversionRate, error) {
	currentRate, conversions, visitors, err := conversionRateInPeriod(db, currentParams)
	if err != nil {
		return nil, err
	}
	previousRate, _, _, err := conversionRateInPeriod(db, previousParams)
	if err != nil {
		return nil, err
	}

	return &ConversionRate{
		Rate:          Round2(currentRate),
		PercentChange: Round2(PercentChange(currentRate, previousRate)),
		Conversions:   conversions,
		Visitors:      visitors,
	}, nil
}

func conversionRateInPeriod(db *gorm.DB, params ProjectScopedQueryParams) (rate float64, conversions, visitors int64, err error) {
	var result struct {
		Conversions int64
		Visitors    int64
	}

	query := `
    SELECT
        COUNT(DISTINCT CASE WHEN event_type = 'conversion' THEN visitor_id END) AS conversions,
        COUNT(DISTINCT visitor_id) AS visitors
    FROM tracking_events
    WHERE project_id = ?
    AND visitor_id != ''
    AND created_at BETWEEN ? AND ?`

	err = db.Raw(query,
		params.ProjectID,
		params.Period.From.UTC(), params.Period.To.UTC(),
	).Scan(&result).Error
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get conversion rate: %w", err)
	}

	if result.Visitors == 0 {
		return 0, 0, 0, nil
	}
	rate = float64(result.Conversions) / float64(result.Visitors) * 100
	return rate, result.Conversions, result.Visitors, nil
}
