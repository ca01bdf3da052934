package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/analytics"
	"github.com/subham-proj/barelytics-server/internal/period"
)

// AnalyticsHandler serves the dashboard metric endpoints.
type AnalyticsHandler struct {
	db       *gorm.DB
	logger   *slog.Logger
	resolver *period.Resolver
}

func NewAnalyticsHandler(db *gorm.DB, logger *slog.Logger, resolver *period.Resolver) *AnalyticsHandler {
	return &AnalyticsHandler{db: db, logger: logger, resolver: resolver}
}

// resolveScope pulls project_id and the reporting windows out of the request.
// A nil return means the error response has already been written.
func (h *AnalyticsHandler) resolveScope(c *fiber.Ctx) (string, period.Periods, bool) {
	projectID := c.Query("project_id")
	if projectID == "" {
		_ = errorJSON(c, fiber.StatusBadRequest, "project_id is required.")
		return "", period.Periods{}, false
	}

	periods, err := h.resolver.Resolve(c.Query("from"), c.Query("to"))
	if err != nil {
		_ = errorJSON(c, fiber.StatusBadRequest, err.Error())
		return "", period.Periods{}, false
	}
	return projectID, periods, true
}

func (h *AnalyticsHandler) currentParams(c *fiber.Ctx, projectID string, periods period.Periods) analytics.ProjectScopedQueryParams {
	params := analytics.NewProjectScopedQueryParams(periods.Current, projectID)
	if limit := c.QueryInt("limit"); limit > 0 {
		params.Limit = limit
	}
	return params
}

// Overview returns the four headline metrics with period-over-period deltas.
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	projectID, periods, ok := h.resolveScope(c)
	if !ok {
		return nil
	}

	overview, err := analytics.GetOverview(h.db, projectID, periods)
	if err != nil {
		h.logger.Error("Failed to compute overview", slog.Any("error", err))
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(overview)
}

// TopPages returns the most viewed pages in the window.
func (h *AnalyticsHandler) TopPages(c *fiber.Ctx) error {
	projectID, periods, ok := h.resolveScope(c)
	if !ok {
		return nil
	}

	results, err := analytics.GetTopPages(h.db, h.currentParams(c, projectID, periods))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(results)
}

// TopReferrers returns the referrers driving the most views.
func (h *AnalyticsHandler) TopReferrers(c *fiber.Ctx) error {
	projectID, periods, ok := h.resolveScope(c)
	if !ok {
		return nil
	}

	results, err := analytics.GetTopReferrers(h.db, h.currentParams(c, projectID, periods))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(results)
}

// Visitors returns the new vs returning visitor split.
func (h *AnalyticsHandler) Visitors(c *fiber.Ctx) error {
	projectID, periods, ok := h.resolveScope(c)
	if !ok {
		return nil
	}

	split, err := analytics.GetNewVsReturningVisitors(h.db, h.currentParams(c, projectID, periods))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(split)
}

// ConversionRate returns the converting share of visitors with its delta.
func (h *AnalyticsHandler) ConversionRate(c *fiber.Ctx) error {
	projectID, periods, ok := h.resolveScope(c)
	if !ok {
		return nil
	}

	result, err := analytics.GetConversionRate(h.db,
		analytics.NewProjectScopedQueryParams(periods.Current, projectID),
		analytics.NewProjectScopedQueryParams(periods.Previous, projectID),
	)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(result)
}

// Reach returns the number of countries visitors came from.
func (h *AnalyticsHandler) Reach(c *fiber.Ctx) error {
	projectID, periods, ok := h.resolveScope(c)
	if !ok {
		return nil
	}

	countries, err := analytics.GetGlobalReach(h.db, h.currentParams(c, projectID, periods))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(fiber.Map{"countries": countries})
}

// Devices returns the device type share breakdown.
func (h *AnalyticsHandler) Devices(c *fiber.Ctx) error {
	projectID, periods, ok := h.resolveScope(c)
	if !ok {
		return nil
	}

	results, err := analytics.GetDeviceTypes(h.db, h.currentParams(c, projectID, periods))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(results)
}

// Locations returns the countries with the most visitors.
func (h *AnalyticsHandler) Locations(c *fiber.Ctx) error {
	projectID, periods, ok := h.resolveScope(c)
	if !ok {
		return nil
	}

	results, err := analytics.GetTopLocations(h.db, h.currentParams(c, projectID, periods))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(results)
}

// Browsers returns the browser share breakdown.
func (h *AnalyticsHandler) Browsers(c *fiber.Ctx) error {
	projectID, periods, ok := h.resolveScope(c)
	if !ok {
		return nil
	}

	results, err := analytics.GetBrowserBreakdown(h.db, h.currentParams(c, projectID, periods))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(results)
}
