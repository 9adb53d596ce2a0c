package worldmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testTarget = WallClockTarget{Hour: 0, Minute: 0}

func testCatalog() []City {
	return []City{
		{ID: "london", Name: "London", Timezone: "Europe/London", Longitude: -0.13, Latitude: 51.51},
		{ID: "utc", Name: "UTC", Timezone: "UTC", Longitude: 0, Latitude: 0},
		{ID: "tokyo", Name: "Tokyo", Timezone: "Asia/Tokyo", Longitude: 139.69, Latitude: 35.69},
	}
}

func newTestManager(t *testing.T) *MarkerManager {
	t.Helper()
	return NewMarkerManager(testCatalog(), testTarget, 5*time.Minute, zap.NewNop())
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		input   string
		want    WallClockTarget
		wantErr bool
	}{
		{input: "00:00", want: WallClockTarget{0, 0}},
		{input: "12:30", want: WallClockTarget{12, 30}},
		{input: "23:59", want: WallClockTarget{23, 59}},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "-1:00", wantErr: true},
		{input: "noon", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTarget(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetTimezone_SelectsExactMatch(t *testing.T) {
	m := newTestManager(t)

	changed := m.SetTimezone("Asia/Tokyo")
	assert.True(t, changed)

	selected := 0
	for _, mk := range m.Markers() {
		if mk.Selected {
			selected++
			assert.Equal(t, "tokyo", mk.City.ID)
		}
	}
	assert.Equal(t, 1, selected, "exactly one marker selected")
}

func TestSetTimezone_Idempotent(t *testing.T) {
	m := newTestManager(t)

	assert.True(t, m.SetTimezone("Europe/London"))
	assert.False(t, m.SetTimezone("Europe/London"), "repeating the same id must report no change")
}

func TestSetTimezone_MissDeselectsAll(t *testing.T) {
	m := newTestManager(t)
	m.SetTimezone("Europe/London")

	changed := m.SetTimezone("Australia/Perth")
	assert.True(t, changed)
	for _, mk := range m.Markers() {
		assert.False(t, mk.Selected, "no substitute marker on a miss")
	}
}

func TestUpdateCelebrationStates_TransitionOnly(t *testing.T) {
	m := newTestManager(t)
	// Midnight in London and UTC; 09:00 in Tokyo.
	midnight := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	newly := m.UpdateCelebrationStates(midnight)
	require.Len(t, newly, 2)
	assert.Equal(t, "london", newly[0].ID)
	assert.Equal(t, "utc", newly[1].ID)

	// Same instant again: no new transitions, state unchanged.
	assert.Empty(t, m.UpdateCelebrationStates(midnight))
	for _, mk := range m.Markers() {
		if mk.City.ID == "tokyo" {
			assert.False(t, mk.Celebrating)
		} else {
			assert.True(t, mk.Celebrating)
		}
	}
}

func TestUpdateCelebrationStates_WindowBoundaries(t *testing.T) {
	m := newTestManager(t)

	// 00:04 local is still inside a 5 minute window.
	newly := m.UpdateCelebrationStates(time.Date(2025, 1, 1, 0, 4, 59, 0, time.UTC))
	assert.Len(t, newly, 2)

	// 00:05 local is outside; both cities leave the window.
	assert.Empty(t, m.UpdateCelebrationStates(time.Date(2025, 1, 1, 0, 5, 0, 0, time.UTC)))
	for _, mk := range m.Markers() {
		assert.False(t, mk.Celebrating)
	}

	// 23:59 the night before is not within a window that starts at 00:00.
	assert.Empty(t, m.UpdateCelebrationStates(time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC)))
}

func TestUpdateCelebrationStates_EachTimezoneIndependently(t *testing.T) {
	m := newTestManager(t)

	// 15:00 UTC on Dec 31 is midnight Jan 1 in Tokyo.
	newly := m.UpdateCelebrationStates(time.Date(2024, 12, 31, 15, 0, 0, 0, time.UTC))
	require.Len(t, newly, 1)
	assert.Equal(t, "tokyo", newly[0].ID)

	// Nine hours later it is midnight in London and UTC; Tokyo has long left.
	newly = m.UpdateCelebrationStates(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, newly, 2)
	assert.Equal(t, "london", newly[0].ID)
	assert.Equal(t, "utc", newly[1].ID)
}

func TestUpdateCelebrationStates_ReArmsAfterLeaving(t *testing.T) {
	m := newTestManager(t)

	require.Len(t, m.UpdateCelebrationStates(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)), 2)
	require.Empty(t, m.UpdateCelebrationStates(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)))

	// The next day's crossing announces again.
	assert.Len(t, m.UpdateCelebrationStates(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)), 2)
}

func TestUpdateCelebrationStates_NonMidnightTarget(t *testing.T) {
	m := NewMarkerManager(testCatalog(), WallClockTarget{Hour: 17, Minute: 30}, 5*time.Minute, zap.NewNop())

	newly := m.UpdateCelebrationStates(time.Date(2025, 6, 15, 17, 31, 0, 0, time.UTC))
	require.Len(t, newly, 1, "only UTC is at 17:31 local (London is on BST)")
	assert.Equal(t, "utc", newly[0].ID)
}

func TestUpdateCelebrationStates_UnloadableTimezoneNeverCelebrates(t *testing.T) {
	catalog := []City{{ID: "nowhere", Name: "Nowhere", Timezone: "Not/AZone", Longitude: 0, Latitude: 0}}
	m := NewMarkerManager(catalog, testTarget, 5*time.Minute, zap.NewNop())

	assert.Empty(t, m.UpdateCelebrationStates(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCelebration_SurvivesTimezoneSwitch(t *testing.T) {
	m := newTestManager(t)
	m.SetTimezone("Europe/London")

	require.NotEmpty(t, m.UpdateCelebrationStates(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	// Switching the observer's timezone changes selection only; celebration
	// state belongs to the cities, not the viewer.
	m.SetTimezone("Asia/Tokyo")
	for _, mk := range m.Markers() {
		switch mk.City.ID {
		case "london", "utc":
			assert.True(t, mk.Celebrating, "%s must stay celebrating", mk.City.ID)
		case "tokyo":
			assert.True(t, mk.Selected)
			assert.False(t, mk.Celebrating)
		}
	}
}

func TestCityByID(t *testing.T) {
	m := newTestManager(t)

	city, ok := m.CityByID("london")
	require.True(t, ok)
	assert.Equal(t, "London", city.Name)

	_, ok = m.CityByID("atlantis")
	assert.False(t, ok)
}

func TestMarkerElements_CachedUntilStateChanges(t *testing.T) {
	m := newTestManager(t)

	before := m.MarkerElements()
	again := m.MarkerElements()
	assert.Equal(t, before, again)

	m.SetTimezone("Asia/Tokyo")
	after := m.MarkerElements()
	assert.NotEqual(t, before, after)
}

func TestMarkerManager_Destroy(t *testing.T) {
	m := newTestManager(t)
	m.Destroy()

	assert.False(t, m.SetTimezone("Europe/London"))
	assert.Empty(t, m.UpdateCelebrationStates(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	_, ok := m.CityByID("london")
	assert.False(t, ok)
}
