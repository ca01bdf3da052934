package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subham-proj/barelytics-server/internal/events"
	"github.com/subham-proj/barelytics-server/internal/projects"
	"github.com/subham-proj/barelytics-server/internal/testsupport"
)

const chromeMacUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func TestCollect(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	logger := testsupport.GetLogger()
	user := testsupport.CreateTestUser(t, db, "collect@example.com", "password123")
	project := testsupport.CreateTestProject(t, db, user.ID, "Collect Site")

	t.Run("stores a valid event", func(t *testing.T) {
		event, err := events.Collect(db, logger, events.CollectEventInput{
			ProjectID: project.ID,
			EventType: events.EventTypePageView,
			VisitorID: "v1",
			SessionID: "s1",
			PageURL:   "/pricing",
			Referrer:  "https://google.com",
		})
		require.NoError(t, err)
		assert.NotZero(t, event.ID)
		assert.Equal(t, project.ID, event.ProjectID)
		assert.False(t, event.CreatedAt.IsZero())
	})

	t.Run("enriches device and browser from user agent", func(t *testing.T) {
		event, err := events.Collect(db, logger, events.CollectEventInput{
			ProjectID: project.ID,
			EventType: events.EventTypePageView,
			VisitorID: "v2",
			UserAgent: chromeMacUA,
		})
		require.NoError(t, err)
		assert.Equal(t, "Chrome", event.Browser)
		assert.Equal(t, events.DeviceDesktop, event.Device)
	})

	t.Run("client-supplied fields win over enrichment", func(t *testing.T) {
		event, err := events.Collect(db, logger, events.CollectEventInput{
			ProjectID: project.ID,
			EventType: events.EventTypePageView,
			Device:    events.DeviceMobile,
			Browser:   "Firefox",
			UserAgent: chromeMacUA,
		})
		require.NoError(t, err)
		assert.Equal(t, "Firefox", event.Browser)
		assert.Equal(t, events.DeviceMobile, event.Device)
	})

	t.Run("keeps a client-supplied timestamp", func(t *testing.T) {
		at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
		event, err := events.Collect(db, logger, events.CollectEventInput{
			ProjectID: project.ID,
			EventType: events.EventTypeConversion,
			VisitorID: "v3",
			Timestamp: at,
		})
		require.NoError(t, err)
		assert.True(t, event.CreatedAt.Equal(at))
	})

	t.Run("rejects missing identifiers", func(t *testing.T) {
		_, err := events.Collect(db, logger, events.CollectEventInput{EventType: events.EventTypePageView})
		assert.ErrorIs(t, err, events.ErrMissingProjectID)

		_, err = events.Collect(db, logger, events.CollectEventInput{ProjectID: project.ID})
		assert.ErrorIs(t, err, events.ErrMissingProjectID)
	})

	t.Run("rejects unknown project", func(t *testing.T) {
		_, err := events.Collect(db, logger, events.CollectEventInput{
			ProjectID: "does-not-exist",
			EventType: events.EventTypePageView,
		})
		var notFound *projects.ProjectNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("honors disabled event types", func(t *testing.T) {
		disabled := testsupport.CreateTestProject(t, db, user.ID, "Disabled Site")
		require.NoError(t, db.Model(&projects.ProjectConfig{}).
			Where("project_id = ?", disabled.ID).
			Update("track_conversions", false).Error)

		_, err := events.Collect(db, logger, events.CollectEventInput{
			ProjectID: disabled.ID,
			EventType: events.EventTypeConversion,
		})
		assert.ErrorIs(t, err, events.ErrTrackingDisabled)
	})
}

func TestListByProject(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	user := testsupport.CreateTestUser(t, db, "list@example.com", "password123")
	project := testsupport.CreateTestProject(t, db, user.ID, "List Site")

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		testsupport.CreatePageView(t, db, project.ID, "v1", "s1", "/",
			base.Add(time.Duration(i)*time.Minute))
	}
	testsupport.CreateEvent(t, db, events.TrackingEvent{
		ProjectID: project.ID,
		EventType: events.EventTypeConversion,
		VisitorID: "v1",
		CreatedAt: base.Add(10 * time.Minute),
	})

	t.Run("newest first with total", func(t *testing.T) {
		result, err := events.ListByProject(db, events.EventFilters{ProjectID: project.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(6), result.Total)
		require.Len(t, result.Events, 6)
		assert.Equal(t, events.EventTypeConversion, result.Events[0].EventType)
	})

	t.Run("filters by event type", func(t *testing.T) {
		result, err := events.ListByProject(db, events.EventFilters{
			ProjectID: project.ID,
			EventType: events.EventTypeConversion,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Total)
	})

	t.Run("paginates", func(t *testing.T) {
		result, err := events.ListByProject(db, events.EventFilters{
			ProjectID: project.ID,
			Limit:     2,
			Offset:    4,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(6), result.Total)
		assert.Len(t, result.Events, 2)
	})
}

func TestParseUserAgent(t *testing.T) {
	t.Run("desktop browser", func(t *testing.T) {
		parsed := events.ParseUserAgent(chromeMacUA)
		assert.Equal(t, "Chrome", parsed.Browser)
		assert.Equal(t, events.DeviceDesktop, parsed.Device)
		assert.False(t, parsed.IsBot)
	})

	t.Run("phone", func(t *testing.T) {
		parsed := events.ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
		assert.Equal(t, events.DeviceMobile, parsed.Device)
	})

	t.Run("tablet", func(t *testing.T) {
		parsed := events.ParseUserAgent("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1")
		assert.Equal(t, events.DeviceTablet, parsed.Device)
	})

	t.Run("bot", func(t *testing.T) {
		parsed := events.ParseUserAgent("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
		assert.True(t, parsed.IsBot)
	})

	t.Run("empty", func(t *testing.T) {
		parsed := events.ParseUserAgent("")
		assert.Equal(t, events.DeviceUnknown, parsed.Device)
		assert.Equal(t, "Unknown", parsed.Browser)
	})
}
