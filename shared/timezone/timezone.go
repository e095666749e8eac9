package timezone

import (
	"shareit/config"
	"time"

	"github.com/rs/zerolog/log"
)

const fallbackTimezone = "UTC"

var appLocation = time.UTC

func init() {
	SetLocation(config.Get().App.Timezone)
}

// SetLocation switches the application timezone. Unknown or empty names fall back to UTC.
func SetLocation(name string) {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		name = fallbackTimezone
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		appLocation = time.UTC

		return
	}

	appLocation = loc

	log.Debug().Str("timezone", loc.String()).Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone, truncated to microseconds
// so values survive a round trip through a postgres timestamp.
func Now() time.Time {
	return time.Now().In(appLocation).Truncate(time.Microsecond)
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation)
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
