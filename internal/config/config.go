// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName     string   `mapstructure:"appname"`
	AppPort     string   `mapstructure:"appport"`
	Environment string   `mapstructure:"environment"`
	LogLevel    LogLevel `mapstructure:"loglevel"`

	// Auth settings
	JWTSecret       string `mapstructure:"jwtsecret"`
	TokenTTLSeconds int    `mapstructure:"tokenttlseconds"`

	// File paths
	DatabasePath string `mapstructure:"storagepath"`
	DatabaseName string `mapstructure:"-"` // Derived from other settings
	GeoDBPath    string `mapstructure:"geodbpath"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseMaxOpenConns int `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int `mapstructure:"dbmaxidleconns"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "barelytics")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("jwtsecret", "88888888888888888888888888888888")
		v.SetDefault("tokenttlseconds", 604800) // 1 week
		v.SetDefault("storagepath", "storage")
		v.SetDefault("geodbpath", "")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)

		// Bind environment variables
		v.BindEnv("appname", "BARELYTICS_APP_NAME")
		v.BindEnv("appport", "BARELYTICS_APP_PORT")
		v.BindEnv("environment", "BARELYTICS_ENV")
		v.BindEnv("loglevel", "BARELYTICS_LOG_LEVEL")
		v.BindEnv("jwtsecret", "BARELYTICS_JWT_SECRET")
		v.BindEnv("tokenttlseconds", "BARELYTICS_TOKEN_TTL_SECONDS")
		v.BindEnv("storagepath", "BARELYTICS_STORAGE_PATH")
		v.BindEnv("geodbpath", "BARELYTICS_GEODB_PATH")
		v.BindEnv("logsdir", "BARELYTICS_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "BARELYTICS_LOGS_MAX_SIZE_MB")
		v.BindEnv("logsmaxbackups", "BARELYTICS_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "BARELYTICS_LOGS_MAX_AGE_DAYS")
		v.BindEnv("dbmaxopenconns", "BARELYTICS_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "BARELYTICS_DB_MAX_IDLE_CONNS")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("failed to unmarshal config: %v", err)
		}

		cfg.DatabaseName = cfg.deriveDatabaseName()
	})

	return cfg
}

// deriveDatabaseName builds the sqlite file path from the storage path
// and environment so test and development databases never collide.
func (c *Config) deriveDatabaseName() string {
	return filepath.Join(c.DatabasePath, fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
}

// IsProduction returns true when running in production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true when running in the test environment
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetTokenTTLSeconds returns the auth token lifetime in seconds
func (c *Config) GetTokenTTLSeconds() int {
	return c.TokenTTLSeconds
}

// GetMaxOpenConns returns the configured maximum number of open database
// connections, 0 meaning the driver default.
func (c *Config) GetMaxOpenConns() int {
	return c.DatabaseMaxOpenConns
}

// GetMaxIdleConns returns the configured maximum number of idle database
// connections, 0 meaning the driver default.
func (c *Config) GetMaxIdleConns() int {
	return c.DatabaseMaxIdleConns
}
