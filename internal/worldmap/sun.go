package worldmap

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// SunTimes holds the solar events for one city on one calendar date.
// Times are reported in the city's own timezone when it loads, UTC otherwise.
type SunTimes struct {
	City      string    `json:"city"`
	Date      string    `json:"date"`
	Sunrise   time.Time `json:"sunrise"`
	Sunset    time.Time `json:"sunset"`
	SolarNoon time.Time `json:"solar_noon"`
}

// CitySunTimes computes sunrise, sunset, and apparent solar noon for the
// city on the date containing the given instant (evaluated in the city's
// timezone so "today" means the city's today, not the server's).
func CitySunTimes(c City, instant time.Time) SunTimes {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := instant.In(loc)

	rise, set := sunrise.SunriseSunset(
		c.Latitude, c.Longitude,
		local.Year(), local.Month(), local.Day(),
	)
	noon := rise.Add(set.Sub(rise) / 2)

	return SunTimes{
		City:      c.ID,
		Date:      local.Format("2006-01-02"),
		Sunrise:   rise.In(loc),
		Sunset:    set.In(loc),
		SolarNoon: noon.In(loc),
	}
}
