package timezone

import (
	"lockngo/config"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	hoursPerDay = 24
)

var (
	appLocation *time.Location
)

func init() {
	cfg := config.Get()

	SetLocation(cfg.App.Timezone)
}

// SetLocation loads the named IANA location as the application timezone,
// falling back to UTC when the name is empty or unknown.
func SetLocation(name string) {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		appLocation = time.UTC

		return
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", name).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Jakarta', 'UTC', 'America/New_York'")

		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().
		Str("timezone", name).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// StartOfDay returns midnight of t's calendar day in the application timezone.
func StartOfDay(t time.Time) time.Time {
	local := ToAppTime(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// DaysBetween counts whole calendar days from a to b in the application timezone.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Round(time.Hour).Hours()) / hoursPerDay
}
