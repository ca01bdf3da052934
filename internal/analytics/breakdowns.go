package analytics

import (
	"fmt"

	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/events"
)

// GetTopPages returns the most viewed page URLs in the window.
func GetTopPages(db *gorm.DB, params ProjectScopedQueryParams) ([]MetricCountResult, error) {
	var results []MetricCountResult

	query := `
    SELECT page_url AS name, COUNT(*) AS count
    FROM tracking_events
    WHERE project_id = ?
    AND event_type = ?
    AND created_at BETWEEN ? AND ?
    AND page_url != ''
    GROUP BY page_url
    ORDER BY count DESC
    LIMIT ?`

	err := db.Raw(query,
		params.ProjectID, events.EventTypePageView,
		params.Period.From.UTC(), params.Period.To.UTC(),
		limitOrDefault(params.Limit),
	).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top pages: %w", err)
	}

	if results == nil {
		results = []MetricCountResult{}
	}
	return results, nil
}

// GetTopReferrers returns the referrers driving the most views in the window.
// Rows without a referrer are bucketed under "Direct".
func GetTopReferrers(db *gorm.DB, params ProjectScopedQueryParams) ([]MetricCountResult, error) {
	var results []MetricCountResult

	query := `
    SELECT
        CASE WHEN referrer = '' OR referrer IS NULL THEN 'Direct' ELSE referrer END AS name,
        COUNT(*) AS count
    FROM tracking_events
    WHERE project_id = ?
    AND event_type = ?
    AND created_at BETWEEN ? AND ?
    GROUP BY name
    ORDER BY count DESC
    LIMIT ?`

	err := db.Raw(query,
		params.ProjectID, events.EventTypePageView,
		params.Period.From.UTC(), params.Period.To.UTC(),
		limitOrDefault(params.Limit),
	).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top referrers: %w", err)
	}

	if results == nil {
		results = []MetricCountResult{}
	}
	return results, nil
}

// GetGlobalReach returns the number of distinct countries seen in the window.
func GetGlobalReach(db *gorm.DB, params ProjectScopedQueryParams) (int64, error) {
	var result struct {
		Countries int64
	}

	query := `
    SELECT COUNT(DISTINCT country) AS countries
    FROM tracking_events
    WHERE project_id = ?
    AND created_at BETWEEN ? AND ?
    AND country != ''`

	err := db.Raw(query,
		params.ProjectID,
		params.Period.From.UTC(), params.Period.To.UTC(),
	).Scan(&result).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get global reach: %w", err)
	}
	return result.Countries, nil
}

// GetDeviceTypes returns each device type's share of views with a known device.
func GetDeviceTypes(db *gorm.DB, params ProjectScopedQueryParams) ([]MetricShareResult, error) {
	grouped, err := groupedCounts(db, params, "device")
	if err != nil {
		return nil, fmt.Errorf("failed to get device types: %w", err)
	}
	return toShares(grouped, limitOrDefault(params.Limit)), nil
}

// GetBrowserBreakdown returns each browser's share of views with a known browser.
func GetBrowserBreakdown(db *gorm.DB, params ProjectScopedQueryParams) ([]MetricShareResult, error) {
	grouped, err := groupedCounts(db, params, "browser")
	if err != nil {
		return nil, fmt.Errorf("failed to get browser breakdown: %w", err)
	}
	return toShares(grouped, limitOrDefault(params.Limit)), nil
}

// GetTopLocations returns the countries with the most distinct visitors,
// with ISO codes expanded to display names.
func GetTopLocations(db *gorm.DB, params ProjectScopedQueryParams) ([]MetricCountResult, error) {
	var results []MetricCountResult

	query := `
    SELECT country AS name, COUNT(DISTINCT visitor_id) AS count
    FROM tracking_events
    WHERE project_id = ?
    AND created_at BETWEEN ? AND ?
    AND country != ''
    AND visitor_id != ''
    GROUP BY country
    ORDER BY count DESC
    LIMIT ?`

	err := db.Raw(query,
		params.ProjectID,
		params.Period.From.UTC(), params.Period.To.UTC(),
		limitOrDefault(params.Limit),
	).Scan(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top locations: %w", err)
	}

	return expandCountryNames(results), nil
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return DefaultBreakdownLimit
	}
	return limit
}

func groupedCounts(db *gorm.DB, params ProjectScopedQueryParams, column string) ([]MetricCountResult, error) {
	var results []MetricCountResult

	query := fmt.Sprintf(`
    SELECT %s AS name, COUNT(*) AS count
    FROM tracking_events
    WHERE project_id = ?
    AND event_type = ?
    AND created_at BETWEEN ? AND ?
    AND %s != ''
    AND %s != 'unknown'
    GROUP BY %s
    ORDER BY count DESC`, column, column, column, column)

	err := db.Raw(query,
		params.ProjectID, events.EventTypePageView,
		params.Period.From.UTC(), params.Period.To.UTC(),
	).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// toShares converts grouped counts into percentage shares, keeping the top
// limit entries and collapsing the rest into an "Other" bucket.
func toShares(grouped []MetricCountResult, limit int) []MetricShareResult {
	var total int64
	for _, item := range grouped {
		total += item.Count
	}
	if total == 0 {
		return []MetricShareResult{}
	}

	shares := make([]MetricShareResult, 0, limit+1)
	var otherCount int64
	for i, item := range grouped {
		if i < limit {
			shares = append(shares, MetricShareResult{
				Name:       item.Name,
				Count:      item.Count,
				Percentage: Round2(float64(item.Count) / float64(total) * 100),
			})
			continue
		}
		otherCount += item.Count
	}
	if otherCount > 0 {
		shares = append(shares, MetricShareResult{
			Name:       "Other",
			Count:      otherCount,
			Percentage: Round2(float64(otherCount) / float64(total) * 100),
		})
	}
	return shares
}

func expandCountryNames(items []MetricCountResult) []MetricCountResult {
	if len(items) == 0 {
		return []MetricCountResult{}
	}

	caser := cases.Upper(language.AmericanEnglish)
	countries := gountries.New()

	expanded := make([]MetricCountResult, len(items))
	for i, item := range items {
		country, err := countries.FindCountryByAlpha(item.Name)
		if err != nil {
			expanded[i] = MetricCountResult{Name: caser.String(item.Name), Count: item.Count}
			continue
		}
		expanded[i] = MetricCountResult{Name: country.Name.Common, Count: item.Count}
	}
	return expanded
}
