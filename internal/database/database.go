package database

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/subham-proj/barelytics-server/internal/config"
	"github.com/subham-proj/barelytics-server/internal/events"
	"github.com/subham-proj/barelytics-server/internal/projects"
	"github.com/subham-proj/barelytics-server/internal/users"
)

// DBManager owns the SQLite connection and knows how to migrate the schema.
type DBManager struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

// NewDBManager creates a new database manager.
func NewDBManager(cfg *config.Config, logger *slog.Logger) *DBManager {
	return &DBManager{
		cfg:    cfg,
		logger: logger,
	}
}

// Init opens the database connection and configures the pool.
func (dm *DBManager) Init() error {
	if dir := filepath.Dir(dm.cfg.DatabaseName); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate", dm.cfg.DatabaseName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(dm.cfg.GetMaxOpenConns())
	sqlDB.SetMaxIdleConns(dm.cfg.GetMaxIdleConns())
	sqlDB.SetConnMaxLifetime(time.Hour)

	dm.db = db
	dm.logger.Info("Database connection established", slog.String("path", dm.cfg.DatabaseName))
	return nil
}

// GetConnection returns the underlying gorm handle.
func (dm *DBManager) GetConnection() *gorm.DB {
	return dm.db
}

// MigrateDatabase runs schema migrations for all models.
func (dm *DBManager) MigrateDatabase() error {
	if dm.db == nil {
		return gorm.ErrInvalidDB
	}

	// Run migrations in a transaction
	err := dm.db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&events.TrackingEvent{},
			&users.User{},
			&projects.Project{},
			&projects.ProjectConfig{},
		)
	})
	if err != nil {
		dm.logger.Error("Failed to auto-migrate database", slog.Any("error", err))
		return err
	}

	dm.logger.Info("Database migration completed successfully")
	return nil
}

// Close releases the connection pool.
func (dm *DBManager) Close() error {
	if dm.db == nil {
		return nil
	}
	sqlDB, err := dm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
