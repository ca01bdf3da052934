package projects_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subham-proj/barelytics-server/internal/events"
	"github.com/subham-proj/barelytics-server/internal/projects"
	"github.com/subham-proj/barelytics-server/internal/testsupport"
)

func TestCreate(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	user := testsupport.CreateTestUser(t, db, "owner@example.com", "password123")

	t.Run("creates project with default config", func(t *testing.T) {
		project, err := projects.Create(db, user.ID, "My Site", "Marketing site")
		require.NoError(t, err)
		assert.NotEmpty(t, project.ID)
		assert.Equal(t, user.ID, project.UserID)

		cfg, err := projects.GetConfig(db, project.ID)
		require.NoError(t, err)
		assert.True(t, cfg.TrackPageviews)
		assert.True(t, cfg.TrackSessions)
		assert.True(t, cfg.TrackConversions)
	})

	t.Run("requires a name", func(t *testing.T) {
		_, err := projects.Create(db, user.ID, "", "")
		assert.Error(t, err)
	})

	t.Run("enforces the per-user quota", func(t *testing.T) {
		quotaUser := testsupport.CreateTestUser(t, db, "quota@example.com", "password123")
		for i := 0; i < projects.MaxProjectsPerUser; i++ {
			_, err := projects.Create(db, quotaUser.ID, fmt.Sprintf("Site %d", i), "")
			require.NoError(t, err)
		}

		_, err := projects.Create(db, quotaUser.ID, "One Too Many", "")
		assert.ErrorIs(t, err, projects.ErrProjectLimitReached)
	})
}

func TestOwnership(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	owner := testsupport.CreateTestUser(t, db, "own@example.com", "password123")
	stranger := testsupport.CreateTestUser(t, db, "stranger@example.com", "password123")
	project := testsupport.CreateTestProject(t, db, owner.ID, "Owned Site")

	t.Run("update by owner", func(t *testing.T) {
		updated, err := projects.Update(db, project.ID, owner.ID, "Renamed", "new description")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
	})

	t.Run("update by non-owner is not found", func(t *testing.T) {
		_, err := projects.Update(db, project.ID, stranger.ID, "Hijacked", "")
		var notFound *projects.ProjectNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("list only shows own projects", func(t *testing.T) {
		list, err := projects.ListByUser(db, stranger.ID)
		require.NoError(t, err)
		assert.Empty(t, list)

		list, err = projects.ListByUser(db, owner.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestDelete(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	owner := testsupport.CreateTestUser(t, db, "del@example.com", "password123")
	project := testsupport.CreateTestProject(t, db, owner.ID, "Doomed Site")
	testsupport.CreatePageView(t, db, project.ID, "v1", "s1", "/", time.Now().UTC())

	require.NoError(t, projects.Delete(db, project.ID, owner.ID))

	_, err := projects.GetByID(db, project.ID)
	var notFound *projects.ProjectNotFoundError
	assert.ErrorAs(t, err, &notFound)

	// Events and config go with the project.
	var eventCount int64
	require.NoError(t, db.Model(&events.TrackingEvent{}).
		Where("project_id = ?", project.ID).Count(&eventCount).Error)
	assert.Equal(t, int64(0), eventCount)

	var configCount int64
	require.NoError(t, db.Model(&projects.ProjectConfig{}).
		Where("project_id = ?", project.ID).Count(&configCount).Error)
	assert.Equal(t, int64(0), configCount)
}

func TestConfig(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	owner := testsupport.CreateTestUser(t, db, "cfg@example.com", "password123")
	project := testsupport.CreateTestProject(t, db, owner.ID, "Config Site")

	t.Run("update by owner", func(t *testing.T) {
		cfg, err := projects.GetConfig(db, project.ID)
		require.NoError(t, err)

		cfg.TrackConversions = false
		cfg.AllowedOrigins = "https://example.com"
		updated, err := projects.UpdateConfig(db, project.ID, owner.ID, *cfg)
		require.NoError(t, err)
		assert.False(t, updated.TrackConversions)
		assert.Equal(t, "https://example.com", updated.AllowedOrigins)
	})

	t.Run("missing row falls back to defaults", func(t *testing.T) {
		bare := projects.Project{ID: "bare-project", Name: "Bare", UserID: owner.ID}
		require.NoError(t, db.Create(&bare).Error)

		cfg, err := projects.GetConfig(db, bare.ID)
		require.NoError(t, err)
		assert.True(t, cfg.TrackPageviews)
	})

	t.Run("AllowsEventType", func(t *testing.T) {
		cfg := projects.ProjectConfig{TrackPageviews: false, TrackSessions: true, TrackConversions: true}
		assert.False(t, cfg.AllowsEventType(events.EventTypePageView))
		assert.True(t, cfg.AllowsEventType(events.EventTypeSession))
		// Custom event types are always accepted.
		assert.True(t, cfg.AllowsEventType("signup_click"))
	})
}
