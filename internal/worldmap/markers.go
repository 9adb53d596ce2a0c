package worldmap

import (
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
)

// WallClockTarget is the local time-of-day every timezone celebrates
// independently. Immutable for the lifetime of a controller.
type WallClockTarget struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseTarget parses a "HH:MM" wall-clock target.
func ParseTarget(s string) (WallClockTarget, error) {
	var t WallClockTarget
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return t, fmt.Errorf("invalid wall-clock target %q: %w", s, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return t, fmt.Errorf("invalid wall-clock target %q: out of range", s)
	}
	return t, nil
}

func (t WallClockTarget) minutes() int {
	return t.Hour*60 + t.Minute
}

func (t WallClockTarget) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Marker is the mutable per-city state behind one rendered map marker.
type Marker struct {
	City        City `json:"city"`
	Selected    bool `json:"selected"`
	Celebrating bool `json:"celebrating"`
	Announced   bool `json:"announced"`

	rendered string // cached markup fragment, cleared when state changes
}

// MarkerManager owns per-city selection and celebration state. It is not
// safe for concurrent use; the Controller serializes all access.
type MarkerManager struct {
	markers    []*Marker
	byTimezone map[string]*Marker // first catalog city per timezone id
	byID       map[string]*Marker
	locations  map[string]*time.Location
	target     WallClockTarget
	window     time.Duration
	logger     *zap.Logger
	destroyed  bool
}

// NewMarkerManager builds markers for the catalog, sorted by longitude
// ascending. Timezones that fail to load are logged and never celebrate.
func NewMarkerManager(catalog []City, target WallClockTarget, window time.Duration, logger *zap.Logger) *MarkerManager {
	cities := make([]City, len(catalog))
	copy(cities, catalog)
	sort.SliceStable(cities, func(i, j int) bool {
		return cities[i].Longitude < cities[j].Longitude
	})

	m := &MarkerManager{
		byTimezone: make(map[string]*Marker, len(cities)),
		byID:       make(map[string]*Marker, len(cities)),
		locations:  make(map[string]*time.Location, len(cities)),
		target:     target,
		window:     window,
		logger:     logger,
	}

	for _, c := range cities {
		mk := &Marker{City: c}
		m.markers = append(m.markers, mk)
		m.byID[c.ID] = mk
		if _, ok := m.byTimezone[c.Timezone]; !ok {
			m.byTimezone[c.Timezone] = mk
		}
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			logger.Warn("marker timezone failed to load",
				zap.String("city", c.ID),
				zap.String("timezone", c.Timezone),
				zap.Error(err),
			)
			continue
		}
		m.locations[c.Timezone] = loc
	}

	return m
}

// SetTimezone selects the catalog city matching the given IANA identifier
// exactly. A miss clears all selections: an observer in a non-featured
// timezone gets no substitute marker. Returns whether any marker changed,
// so repeated calls with the same id are visually idempotent.
func (m *MarkerManager) SetTimezone(timezoneID string) bool {
	if m.destroyed {
		return false
	}

	want := m.byTimezone[timezoneID] // nil on miss
	changed := false
	for _, mk := range m.markers {
		sel := mk == want && want != nil
		if mk.Selected != sel {
			mk.Selected = sel
			mk.rendered = ""
			changed = true
		}
	}
	return changed
}

// CityByID resolves a marker's city for activation. Activating a marker does
// not touch selection state: which marker is selected follows the
// controller's timezone, not UI focus.
func (m *MarkerManager) CityByID(cityID string) (City, bool) {
	if m.destroyed {
		return City{}, false
	}
	mk, ok := m.byID[cityID]
	if !ok {
		return City{}, false
	}
	return mk.City, true
}

// UpdateCelebrationStates recomputes, for each city, whether its local
// wall-clock time is inside the celebration window [target, target+window),
// and returns the cities that transitioned into celebrating on this call.
// Cities already celebrating are not returned again, so each crossing is
// announced exactly once.
func (m *MarkerManager) UpdateCelebrationStates(instant time.Time) []City {
	if m.destroyed {
		return nil
	}

	var newly []City
	for _, mk := range m.markers {
		cel := m.celebratingAt(mk.City.Timezone, instant)
		if cel == mk.Celebrating {
			continue
		}
		if cel {
			newly = append(newly, mk.City)
			mk.Announced = true
		} else {
			// Left the window; re-arm for the next crossing.
			mk.Announced = false
		}
		mk.Celebrating = cel
		mk.rendered = ""
	}
	return newly
}

// celebratingAt reports whether the timezone's local wall-clock time is
// within the window after the target. The modular difference makes windows
// that cross midnight wrap correctly (target 00:00, window 5m covers
// [00:00, 00:05) even though 23:59 precedes it).
func (m *MarkerManager) celebratingAt(timezoneID string, instant time.Time) bool {
	loc, ok := m.locations[timezoneID]
	if !ok {
		return false
	}
	local := instant.In(loc)
	localMin := local.Hour()*60 + local.Minute()
	windowMin := int(m.window / time.Minute)
	diff := (localMin - m.target.minutes() + 24*60) % (24 * 60)
	return diff < windowMin
}

// Markers returns a snapshot of marker state in render order.
func (m *MarkerManager) Markers() []Marker {
	out := make([]Marker, len(m.markers))
	for i, mk := range m.markers {
		out[i] = *mk
	}
	return out
}

// MarkerElements returns the rendered markup fragment per marker in tab
// order. Fragments are cached per marker and only rebuilt for markers whose
// state changed since the last call.
func (m *MarkerManager) MarkerElements() []string {
	out := make([]string, len(m.markers))
	for i, mk := range m.markers {
		if mk.rendered == "" {
			mk.rendered = renderMarker(mk)
		}
		out[i] = mk.rendered
	}
	return out
}

// Destroy marks the manager dead. Further calls are no-ops; straggler timer
// callbacks racing teardown must never panic.
func (m *MarkerManager) Destroy() {
	m.destroyed = true
}
