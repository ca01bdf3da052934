package analytics

import (
	"github.com/subham-proj/barelytics-server/internal/period"
)

// DefaultBreakdownLimit caps grouped results when the caller does not ask for more.
const DefaultBreakdownLimit = 5

// ProjectScopedQueryParams contains common parameters for project-scoped queries
type ProjectScopedQueryParams struct {
	Period    period.Period
	ProjectID string
	Limit     int // Number of records to return
}

// NewProjectScopedQueryParams creates a new query params object with the specified period and project ID
func NewProjectScopedQueryParams(p period.Period, projectID string) ProjectScopedQueryParams {
	return ProjectScopedQueryParams{
		Period:    p,
		ProjectID: projectID,
		Limit:     DefaultBreakdownLimit,
	}
}

// MetricCountResult is a generic name/count pair returned by grouped queries.
type MetricCountResult struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// MetricShareResult is a name/count pair with its share of the grouped total.
type MetricShareResult struct {
	Name       string  `json:"name"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}
