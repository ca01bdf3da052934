package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/subham-proj/barelytics-server/internal/config"
	"github.com/subham-proj/barelytics-server/internal/database"
	"github.com/subham-proj/barelytics-server/internal/logging"
	"github.com/subham-proj/barelytics-server/internal/seeder"
)

func main() {
	projectID := flag.String("project", "", "project id to seed")
	count := flag.Int("events", 2000, "number of events to generate")
	flag.Parse()

	cfg := config.GetConfig()
	logger := logging.NewLogger(cfg)

	if *projectID == "" {
		logger.Error("Missing -project flag")
		os.Exit(1)
	}

	dbManager := database.NewDBManager(cfg, logger)
	if err := dbManager.Init(); err != nil {
		logger.Error("Failed to initialize database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbManager.Close()

	if err := dbManager.MigrateDatabase(); err != nil {
		logger.Error("Failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}

	s := seeder.NewSeeder(dbManager.GetConnection(), logger, *count)
	if err := s.SeedProject(context.Background(), *projectID); err != nil {
		logger.Error("Seeding failed", slog.Any("error", err))
		os.Exit(1)
	}
}
