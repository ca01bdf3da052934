package events

import (
	"log/slog"
	"net"
	"os"
	"sync"

	"github.com/oschwald/geoip2-golang"

	"github.com/subham-proj/barelytics-server/internal/config"
)

var (
	geoDB   *geoip2.Reader
	geoOnce sync.Once
)

// initGeoDB opens the GeoLite2 database configured at GeoDBPath. Returns
// nil when not configured or not present on disk; GeoIP enrichment is
// optional.
func initGeoDB(logger *slog.Logger) *geoip2.Reader {
	geoOnce.Do(func() {
		cfg := config.GetConfig()
		if cfg.GeoDBPath == "" {
			logger.Debug("GeoIP database path not configured, country enrichment disabled")
			return
		}

		if _, err := os.Stat(cfg.GeoDBPath); err != nil {
			logger.Info("GeoLite2 database not found, country enrichment disabled",
				slog.String("path", cfg.GeoDBPath))
			return
		}

		reader, err := geoip2.Open(cfg.GeoDBPath)
		if err != nil {
			logger.Warn("Failed to open GeoLite2 database",
				slog.String("path", cfg.GeoDBPath),
				slog.Any("error", err))
			return
		}
		geoDB = reader
	})
	return geoDB
}

// CountryForIP resolves an IP address to an ISO 3166-1 country code.
// Returns "" when the database is unavailable or the address is unknown.
func CountryForIP(logger *slog.Logger, ipAddress string) string {
	reader := initGeoDB(logger)
	if reader == nil || ipAddress == "" {
		return ""
	}

	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return ""
	}

	record, err := reader.Country(ip)
	if err != nil {
		logger.Debug("GeoIP lookup failed", slog.String("ip", ipAddress), slog.Any("error", err))
		return ""
	}
	return record.Country.IsoCode
}
