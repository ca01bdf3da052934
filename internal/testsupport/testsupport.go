package testsupport

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/subham-proj/barelytics-server/internal/events"
	"github.com/subham-proj/barelytics-server/internal/projects"
	"github.com/subham-proj/barelytics-server/internal/users"
)

// testDBCache caches test databases by test name to allow multiple calls
// within the same test to share the same database
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

// allModels returns all models for migration
func allModels() []any {
	return []any{
		&events.TrackingEvent{},
		&users.User{},
		&projects.Project{},
		&projects.ProjectConfig{},
	}
}

// SetupTestDB creates a test database with all models migrated.
// Uses a named in-memory database with cache=shared so multiple connections
// within a test share the same database, cached by root test name.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testName := t.Name()
	rootName := testName
	if idx := strings.Index(testName, "/"); idx > 0 {
		rootName = testName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	sanitizedName := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	if err := db.AutoMigrate(allModels()...); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// GetLogger returns a logger that discards output, for use in tests.
func GetLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestUser creates a user with a bcrypt-hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB, email, password string) *users.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("testsupport: failed to hash password: %v", err)
	}

	user := users.User{
		ID:                uuid.NewString(),
		Email:             email,
		EncryptedPassword: string(hashed),
		Plan:              "free",
		IsActive:          true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("testsupport: failed to create test user: %v", err)
	}
	return &user
}

// CreateTestProject creates a project with its default tracking config.
func CreateTestProject(t *testing.T, db *gorm.DB, userID, name string) *projects.Project {
	t.Helper()

	project := projects.Project{
		ID:     uuid.NewString(),
		Name:   name,
		UserID: userID,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("testsupport: failed to create test project: %v", err)
	}

	cfg := projects.ProjectConfig{
		ProjectID:        project.ID,
		TrackPageviews:   true,
		TrackSessions:    true,
		TrackConversions: true,
	}
	if err := db.Create(&cfg).Error; err != nil {
		t.Fatalf("testsupport: failed to create test project config: %v", err)
	}
	return &project
}

// CreateEvent inserts a tracking event row directly.
func CreateEvent(t *testing.T, db *gorm.DB, event events.TrackingEvent) {
	t.Helper()

	if event.EventType == "" {
		event.EventType = events.EventTypePageView
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("testsupport: failed to create test event: %v", err)
	}
}

// CreatePageView inserts a page view row with the fields analytics queries read.
func CreatePageView(t *testing.T, db *gorm.DB, projectID, visitorID, sessionID, pageURL string, createdAt time.Time) {
	t.Helper()

	CreateEvent(t, db, events.TrackingEvent{
		ProjectID: projectID,
		EventType: events.EventTypePageView,
		VisitorID: visitorID,
		SessionID: sessionID,
		PageURL:   pageURL,
		CreatedAt: createdAt,
	})
}
