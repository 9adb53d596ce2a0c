package worldmap

import (
	"math"
	"time"
)

// Terminator sweep resolution in degrees of longitude.
const terminatorStepDeg = 3.0

// TerminatorPoint is one vertex of the terminator curve, in geographic
// coordinates (degrees).
type TerminatorPoint struct {
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
}

// TerminatorSnapshot is the day/night boundary at a single instant: a closed
// polygon outlining the night side of the map. Recomputed from scratch on
// every update; the calculation is closed-form trigonometry and cheap enough
// that nothing is cached incrementally.
type TerminatorSnapshot struct {
	ComputedAt  time.Time         `json:"computed_at"`
	Points      []TerminatorPoint `json:"points"`
	Declination float64           `json:"declination_deg"`
	SubsolarLon float64           `json:"subsolar_lon_deg"`
	Degenerate  bool              `json:"degenerate"`
}

// ComputeTerminator returns the day/night boundary for the given instant.
// Pure and deterministic: the same instant always yields the same snapshot.
// It never panics; instants outside any sane calendar range degrade to a
// pole-to-pole seam at the prime meridian.
func ComputeTerminator(instant time.Time) TerminatorSnapshot {
	if !validInstant(instant) {
		return degenerateSeam(instant)
	}

	utc := instant.UTC()

	// Solar declination from day of year (standard approximation).
	n := float64(utc.YearDay())
	decl := -23.44 * math.Cos(2*math.Pi/365.24*(n+10))

	// Subsolar longitude from UTC time of day: the sun is overhead at
	// longitude 0 at 12:00 UTC and moves west 15 degrees per hour.
	hours := float64(utc.Hour()) + float64(utc.Minute())/60 + float64(utc.Second())/3600
	subLon := normalizeLon(-15 * (hours - 12))

	snap := TerminatorSnapshot{
		ComputedAt:  instant,
		Declination: decl,
		SubsolarLon: subLon,
	}

	// The pole opposite the subsolar hemisphere is in darkness; the polygon
	// closes over it so the night side fills correctly.
	nightPole := 90.0
	if decl > 0 {
		nightPole = -90.0
	}

	declRad := decl * math.Pi / 180
	tanDecl := math.Tan(declRad)

	for lon := -180.0; lon <= 180.0; lon += terminatorStepDeg {
		// Hour angle relative to the subsolar point.
		ha := (lon - subLon) * math.Pi / 180
		lat := math.Atan(-math.Cos(ha)/tanDecl) * 180 / math.Pi
		// At equinox tanDecl is ~0 and the division overflows toward the
		// poles; clamp instead of emitting non-finite latitudes.
		if math.IsNaN(lat) {
			lat = nightPole
		}
		lat = clamp(lat, -90, 90)
		snap.Points = append(snap.Points, TerminatorPoint{Longitude: lon, Latitude: lat})
	}

	// Close the polygon over the night pole and back to the start.
	snap.Points = append(snap.Points,
		TerminatorPoint{Longitude: 180, Latitude: nightPole},
		TerminatorPoint{Longitude: -180, Latitude: nightPole},
		snap.Points[0],
	)

	return snap
}

// validInstant rejects the zero value and dates outside SQL/ISO range,
// which arithmetic on YearDay would still accept but render nonsense for.
func validInstant(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	y := t.UTC().Year()
	return y >= 1 && y <= 9999
}

// degenerateSeam is the non-crashing fallback for malformed instants: a
// straight pole-to-pole line at the prime meridian, closed over the map edge.
func degenerateSeam(instant time.Time) TerminatorSnapshot {
	snap := TerminatorSnapshot{ComputedAt: instant, Degenerate: true}
	for lat := -90.0; lat <= 90.0; lat += terminatorStepDeg {
		snap.Points = append(snap.Points, TerminatorPoint{Longitude: 0, Latitude: lat})
	}
	snap.Points = append(snap.Points,
		TerminatorPoint{Longitude: -180, Latitude: 90},
		TerminatorPoint{Longitude: -180, Latitude: -90},
		snap.Points[0],
	)
	return snap
}

func normalizeLon(lon float64) float64 {
	for lon > 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
