package internal

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"

	"github.com/subham-proj/barelytics-server/internal/auth"
	"github.com/subham-proj/barelytics-server/internal/config"
	"github.com/subham-proj/barelytics-server/internal/http"
	"github.com/subham-proj/barelytics-server/internal/http/middleware"
	"github.com/subham-proj/barelytics-server/internal/period"
)

// MountRoutes wires every API endpoint onto the fiber app.
func MountRoutes(app *fiber.App, db *gorm.DB, logger *slog.Logger, cfg *config.Config) {
	manager := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.GetTokenTTLSeconds())*time.Second)
	requireAuth := middleware.RequireAuth(db, manager, logger)

	authHandler := http.NewAuthHandler(db, logger, manager)
	trackingHandler := http.NewTrackingHandler(db, logger)
	analyticsHandler := http.NewAnalyticsHandler(db, logger, period.NewResolver())
	projectsHandler := http.NewProjectsHandler(db, logger)
	accountHandler := http.NewAccountHandler(db, logger)

	app.Get("/health", http.HealthIndexAction)

	app.Post("/auth/signup", authHandler.Signup)
	app.Post("/auth/login", authHandler.Login)

	// Tracking endpoints take events straight from client sites, so they
	// accept any origin.
	trackCORS := cors.New()
	app.Post("/track", trackCORS, trackingHandler.Track)
	app.Get("/track", trackCORS, trackingHandler.GetEvents)

	analytics := app.Group("/analytics", requireAuth)
	analytics.Get("/overview", analyticsHandler.Overview)
	analytics.Get("/top-pages", analyticsHandler.TopPages)
	analytics.Get("/top-referrers", analyticsHandler.TopReferrers)
	analytics.Get("/visitors", analyticsHandler.Visitors)
	analytics.Get("/conversion-rate", analyticsHandler.ConversionRate)
	analytics.Get("/reach", analyticsHandler.Reach)
	analytics.Get("/devices", analyticsHandler.Devices)
	analytics.Get("/locations", analyticsHandler.Locations)
	analytics.Get("/browsers", analyticsHandler.Browsers)

	// Config is readable without auth so the tracker snippet can fetch it.
	app.Get("/projects/:id/config", projectsHandler.GetConfig)

	projects := app.Group("/projects", requireAuth)
	projects.Get("/", projectsHandler.List)
	projects.Post("/", projectsHandler.Create)
	projects.Put("/:id", projectsHandler.Update)
	projects.Delete("/:id", projectsHandler.Delete)
	projects.Put("/:id/config", projectsHandler.UpdateConfig)

	account := app.Group("/account", requireAuth)
	account.Get("/settings", accountHandler.GetSettings)
	account.Post("/settings", accountHandler.UpdateSettings)
	account.Post("/password", accountHandler.ChangePassword)
	account.Post("/delete", accountHandler.Delete)
	account.Get("/plan", accountHandler.GetPlan)
	account.Post("/plan", accountHandler.UpdatePlan)
	account.Post("/upgrade", accountHandler.InitiateUpgrade)

	app.Post("/billing/webhook", accountHandler.Webhook)
}
