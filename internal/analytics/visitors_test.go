package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subham-proj/barelytics-server/internal/analytics"
	"github.com/subham-proj/barelytics-server/internal/events"
	"github.com/subham-proj/barelytics-server/internal/period"
	"github.com/subham-proj/barelytics-server/internal/testsupport"
)

func TestGetNewVsReturningVisitors(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	user := testsupport.CreateTestUser(t, db, "split@example.com", "password123")
	project := testsupport.CreateTestProject(t, db, user.ID, "Split Site")

	window := marchWindow()
	inWindow := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	beforeWindow := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)

	// v1 was first seen in January, so their March visit is a return.
	testsupport.CreatePageView(t, db, project.ID, "v1", "s0", "/", beforeWindow)
	testsupport.CreatePageView(t, db, project.ID, "v1", "s1", "/", inWindow)
	// v2 and v3 show up for the first time inside the window.
	testsupport.CreatePageView(t, db, project.ID, "v2", "s2", "/", inWindow)
	testsupport.CreatePageView(t, db, project.ID, "v3", "s3", "/", inWindow)
	// v4 only exists outside the window and is not part of the split.
	testsupport.CreatePageView(t, db, project.ID, "v4", "s4", "/", beforeWindow)

	params := analytics.NewProjectScopedQueryParams(window, project.ID)
	split, err := analytics.GetNewVsReturningVisitors(db, params)
	require.NoError(t, err)

	assert.Equal(t, int64(2), split.NewVisitors)
	assert.Equal(t, int64(1), split.ReturningVisitors)
}

func TestGetConversionRate(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	user := testsupport.CreateTestUser(t, db, "conv@example.com", "password123")
	project := testsupport.CreateTestProject(t, db, user.ID, "Conv Site")

	current := marchWindow()
	previous := period.Period{
		From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 2, 29, 23, 59, 59, int(999*time.Millisecond), time.UTC),
	}

	inCurrent := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	inPrevious := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)

	// Current window: 4 visitors, 1 converts (twice, still one visitor).
	for _, visitor := range []string{"v1", "v2", "v3", "v4"} {
		testsupport.CreatePageView(t, db, project.ID, visitor, "s-"+visitor, "/", inCurrent)
	}
	testsupport.CreateEvent(t, db, events.TrackingEvent{
		ProjectID: project.ID, EventType: events.EventTypeConversion,
		VisitorID: "v1", SessionID: "s-v1", CreatedAt: inCurrent,
	})
	testsupport.CreateEvent(t, db, events.TrackingEvent{
		ProjectID: project.ID, EventType: events.EventTypeConversion,
		VisitorID: "v1", SessionID: "s-v1", CreatedAt: inCurrent.Add(time.Hour),
	})

	// Previous window: 2 visitors, 1 converts.
	for _, visitor := range []string{"p1", "p2"} {
		testsupport.CreatePageView(t, db, project.ID, visitor, "s-"+visitor, "/", inPrevious)
	}
	testsupport.CreateEvent(t, db, events.TrackingEvent{
		ProjectID: project.ID, EventType: events.EventTypeConversion,
		VisitorID: "p1", SessionID: "s-p1", CreatedAt: inPrevious,
	})

	result, err := analytics.GetConversionRate(db,
		analytics.NewProjectScopedQueryParams(current, project.ID),
		analytics.NewProjectScopedQueryParams(previous, project.ID),
	)
	require.NoError(t, err)

	assert.Equal(t, 25.0, result.Rate)
	assert.Equal(t, int64(1), result.Conversions)
	assert.Equal(t, int64(4), result.Visitors)
	// 25% now against 50% before.
	assert.Equal(t, -50.0, result.PercentChange)
}

func TestGetConversionRateNoVisitors(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	user := testsupport.CreateTestUser(t, db, "noconv@example.com", "password123")
	project := testsupport.CreateTestProject(t, db, user.ID, "No Conv Site")

	result, err := analytics.GetConversionRate(db,
		analytics.NewProjectScopedQueryParams(marchWindow(), project.ID),
		analytics.NewProjectScopedQueryParams(marchWindow(), project.ID),
	)
	require.NoError(t, err)

	assert.Equal(t, 0.0, result.Rate)
	assert.Equal(t, 0.0, result.PercentChange)
	assert.Equal(t, int64(0), result.Conversions)
	assert.Equal(t, int64(0), result.Visitors)
}
