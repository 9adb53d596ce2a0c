// Package worldmap implements the world map celebration widget: a fixed
// catalog of featured cities, a moving day/night terminator, and per-city
// tracking of whether local wall-clock time has crossed a celebration target.
package worldmap

import (
	_ "time/tzdata" // Embed the IANA database so timezone lookups work anywhere.
)

// City is one featured location on the map. Immutable.
type City struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Timezone  string  `json:"timezone"` // IANA identifier
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// DefaultCatalog returns the featured cities, sorted by longitude ascending.
// The order is also the keyboard tab order of the rendered markers, so the
// focus ring travels west to east across the map.
func DefaultCatalog() []City {
	return []City{
		{ID: "honolulu", Name: "Honolulu", Timezone: "Pacific/Honolulu", Longitude: -157.86, Latitude: 21.31},
		{ID: "los-angeles", Name: "Los Angeles", Timezone: "America/Los_Angeles", Longitude: -118.24, Latitude: 34.05},
		{ID: "denver", Name: "Denver", Timezone: "America/Denver", Longitude: -104.99, Latitude: 39.74},
		{ID: "mexico-city", Name: "Mexico City", Timezone: "America/Mexico_City", Longitude: -99.13, Latitude: 19.43},
		{ID: "chicago", Name: "Chicago", Timezone: "America/Chicago", Longitude: -87.62, Latitude: 41.88},
		{ID: "new-york", Name: "New York", Timezone: "America/New_York", Longitude: -74.01, Latitude: 40.71},
		{ID: "santiago", Name: "Santiago", Timezone: "America/Santiago", Longitude: -70.65, Latitude: -33.45},
		{ID: "sao-paulo", Name: "São Paulo", Timezone: "America/Sao_Paulo", Longitude: -46.63, Latitude: -23.55},
		{ID: "london", Name: "London", Timezone: "Europe/London", Longitude: -0.13, Latitude: 51.51},
		{ID: "utc", Name: "UTC", Timezone: "UTC", Longitude: 0, Latitude: 0},
		{ID: "paris", Name: "Paris", Timezone: "Europe/Paris", Longitude: 2.35, Latitude: 48.86},
		{ID: "lagos", Name: "Lagos", Timezone: "Africa/Lagos", Longitude: 3.39, Latitude: 6.52},
		{ID: "berlin", Name: "Berlin", Timezone: "Europe/Berlin", Longitude: 13.41, Latitude: 52.52},
		{ID: "cairo", Name: "Cairo", Timezone: "Africa/Cairo", Longitude: 31.24, Latitude: 30.04},
		{ID: "moscow", Name: "Moscow", Timezone: "Europe/Moscow", Longitude: 37.62, Latitude: 55.76},
		{ID: "dubai", Name: "Dubai", Timezone: "Asia/Dubai", Longitude: 55.27, Latitude: 25.2},
		{ID: "mumbai", Name: "Mumbai", Timezone: "Asia/Kolkata", Longitude: 72.88, Latitude: 19.08},
		{ID: "bangkok", Name: "Bangkok", Timezone: "Asia/Bangkok", Longitude: 100.5, Latitude: 13.76},
		{ID: "singapore", Name: "Singapore", Timezone: "Asia/Singapore", Longitude: 103.82, Latitude: 1.35},
		{ID: "hong-kong", Name: "Hong Kong", Timezone: "Asia/Hong_Kong", Longitude: 114.17, Latitude: 22.32},
		{ID: "shanghai", Name: "Shanghai", Timezone: "Asia/Shanghai", Longitude: 121.47, Latitude: 31.23},
		{ID: "tokyo", Name: "Tokyo", Timezone: "Asia/Tokyo", Longitude: 139.69, Latitude: 35.69},
		{ID: "sydney", Name: "Sydney", Timezone: "Australia/Sydney", Longitude: 151.21, Latitude: -33.87},
		{ID: "auckland", Name: "Auckland", Timezone: "Pacific/Auckland", Longitude: 174.76, Latitude: -36.85},
	}
}
