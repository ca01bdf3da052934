// Package seeder fills a project with a month of plausible demo traffic.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/events"
	"github.com/subham-proj/barelytics-server/internal/projects"
)

var (
	seedPages = []string{"/", "/pricing", "/blog", "/docs", "/about", "/signup", "/blog/launch", "/docs/getting-started"}

	seedReferrers = []string{"", "", "", "https://google.com", "https://news.ycombinator.com", "https://twitter.com", "https://github.com"}

	seedDevices = []string{events.DeviceDesktop, events.DeviceDesktop, events.DeviceMobile, events.DeviceTablet}

	seedBrowsers = []string{"Chrome", "Chrome", "Firefox", "Safari", "Edge"}

	seedCountries = []string{"US", "US", "DE", "GB", "FR", "IN", "BR", "JP"}
)

// Seeder generates demo tracking data for development dashboards.
type Seeder struct {
	DB         *gorm.DB
	Logger     *slog.Logger
	EventCount int
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, logger *slog.Logger, eventCount int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if eventCount <= 0 {
		eventCount = 2000
	}
	return &Seeder{
		DB:         db,
		Logger:     logger,
		EventCount: eventCount,
	}
}

// SeedProject fills an existing project with a month of events ending now.
func (s *Seeder) SeedProject(ctx context.Context, projectID string) error {
	start := time.Now()

	project, err := projects.GetByID(s.DB, projectID)
	if err != nil {
		return fmt.Errorf("failed to find project: %w", err)
	}

	s.Logger.Info("Seeding project...",
		slog.String("project", project.Name),
		slog.Int("eventCount", s.EventCount))

	now := time.Now().UTC()
	windowStart := now.AddDate(0, -1, 0)

	visitorCount := s.EventCount / 4
	if visitorCount < 1 {
		visitorCount = 1
	}
	visitors := make([]string, visitorCount)
	for i := range visitors {
		visitors[i] = uuid.NewString()
	}

	batch := make([]events.TrackingEvent, 0, s.EventCount)
	generated := 0
	for generated < s.EventCount {
		if err := ctx.Err(); err != nil {
			return err
		}

		visitor := visitors[rand.IntN(len(visitors))]
		session := uuid.NewString()
		sessionStart := windowStart.Add(time.Duration(rand.Int64N(int64(now.Sub(windowStart)))))
		country := seedCountries[rand.IntN(len(seedCountries))]
		device := seedDevices[rand.IntN(len(seedDevices))]
		browser := seedBrowsers[rand.IntN(len(seedBrowsers))]

		// Most sessions are a handful of views a few minutes apart.
		views := 1 + rand.IntN(5)
		at := sessionStart
		for v := 0; v < views && generated < s.EventCount; v++ {
			batch = append(batch, events.TrackingEvent{
				ProjectID: project.ID,
				EventType: events.EventTypePageView,
				VisitorID: visitor,
				SessionID: session,
				PageURL:   seedPages[rand.IntN(len(seedPages))],
				Referrer:  seedReferrers[rand.IntN(len(seedReferrers))],
				Device:    device,
				Browser:   browser,
				Country:   country,
				CreatedAt: at,
			})
			generated++
			at = at.Add(time.Duration(30+rand.IntN(240)) * time.Second)
		}

		// Roughly one session in twelve converts.
		if rand.IntN(12) == 0 && generated < s.EventCount {
			batch = append(batch, events.TrackingEvent{
				ProjectID: project.ID,
				EventType: events.EventTypeConversion,
				VisitorID: visitor,
				SessionID: session,
				Country:   country,
				Device:    device,
				Browser:   browser,
				CreatedAt: at,
			})
			generated++
		}
	}

	if err := s.DB.CreateInBatches(batch, 500).Error; err != nil {
		return fmt.Errorf("failed to insert seed events: %w", err)
	}

	s.Logger.Info("Seeding complete",
		slog.Int("events", len(batch)),
		slog.Duration("took", time.Since(start)))
	return nil
}
