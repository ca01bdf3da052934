package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/subham-proj/barelytics-server/internal"
	"github.com/subham-proj/barelytics-server/internal/config"
	"github.com/subham-proj/barelytics-server/internal/database"
	"github.com/subham-proj/barelytics-server/internal/logging"
)

func main() {
	cfg := config.GetConfig()
	logger := logging.NewLogger(cfg)

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

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: cfg.IsProduction(),
	})

	internal.MountRoutes(app, dbManager.GetConnection(), logger, cfg)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.AppPort)
		logger.Info("Server starting", slog.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Error("Server stopped", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Shutdown error", slog.Any("error", err))
	}
	logger.Info("Server exited")
}
