package events

import (
	"strings"

	"github.com/mssola/useragent"
)

// Device type labels derived from the User-Agent header.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// ParsedUA contains browser and device information extracted from a
// User-Agent header.
type ParsedUA struct {
	Browser string
	Device  string
	IsBot   bool
}

// ParseUserAgent extracts browser name and device type from a raw
// User-Agent string. Unknown agents resolve to "Unknown"/"unknown" rather
// than failing, so ingestion never rejects an event over its UA header.
func ParseUserAgent(uaString string) ParsedUA {
	if uaString == "" {
		return ParsedUA{Browser: "Unknown", Device: DeviceUnknown}
	}

	ua := useragent.New(uaString)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown"
	}

	device := DeviceDesktop
	switch {
	case ua.Bot():
		device = DeviceBot
	case isTablet(uaString):
		device = DeviceTablet
	case ua.Mobile():
		device = DeviceMobile
	}

	return ParsedUA{
		Browser: browser,
		Device:  device,
		IsBot:   ua.Bot(),
	}
}

// isTablet checks for tablet signatures the mobile flag does not separate
func isTablet(uaString string) bool {
	lower := strings.ToLower(uaString)
	if strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet") {
		return true
	}
	// Android tablets carry "Android" without "Mobile"
	return strings.Contains(lower, "android") && !strings.Contains(lower, "mobile")
}
