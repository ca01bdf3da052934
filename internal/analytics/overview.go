package analytics

import (
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/events"
	"github.com/subham-proj/barelytics-server/internal/period"
)

// CountMetric is an integer-valued overview metric with its period-over-period delta.
type CountMetric struct {
	Value         int64   `json:"value"`
	PercentChange float64 `json:"percent_change"`
}

// RateMetric is a fractional overview metric with its period-over-period delta.
type RateMetric struct {
	Value         float64 `json:"value"`
	PercentChange float64 `json:"percent_change"`
}

// Overview bundles the four headline metrics for a project dashboard.
type Overview struct {
	TotalVisitors      CountMetric `json:"total_visitors"`
	PageViews          CountMetric `json:"page_views"`
	AvgSessionDuration RateMetric  `json:"avg_session_duration"`
	BounceRate         RateMetric  `json:"bounce_rate"`
}

// GetOverview computes the headline metrics for both windows and their deltas.
// Each window is fetched once and shared by every extractor.
func GetOverview(db *gorm.DB, projectID string, periods period.Periods) (*Overview, error) {
	currentRows, err := events.PageViewsInTimeRange(db, projectID, periods.Current.From, periods.Current.To)
	if err != nil {
		return nil, err
	}
	previousRows, err := events.PageViewsInTimeRange(db, projectID, periods.Previous.From, periods.Previous.To)
	if err != nil {
		return nil, err
	}

	currentVisitors := UniqueVisitorCount(currentRows)
	previousVisitors := UniqueVisitorCount(previousRows)
	currentViews := PageViewCount(currentRows)
	previousViews := PageViewCount(previousRows)
	currentDuration := AverageSessionDuration(currentRows)
	previousDuration := AverageSessionDuration(previousRows)
	currentBounce := BounceRate(currentRows)
	previousBounce := BounceRate(previousRows)

	return &Overview{
		TotalVisitors: CountMetric{
			Value:         currentVisitors,
			PercentChange: Round2(PercentChange(float64(currentVisitors), float64(previousVisitors))),
		},
		PageViews: CountMetric{
			Value:         currentViews,
			PercentChange: Round2(PercentChange(float64(currentViews), float64(previousViews))),
		},
		AvgSessionDuration: RateMetric{
			Value:         Round2(currentDuration),
			PercentChange: Round2(PercentChange(currentDuration, previousDuration)),
		},
		BounceRate: RateMetric{
			Value:         Round2(currentBounce),
			PercentChange: Round2(PercentChange(currentBounce, previousBounce)),
		},
	}, nil
}
