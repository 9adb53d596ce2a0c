package worldmap

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridian-live/meridian/internal/event"
)

// fixedClock returns a clock function pinned to the given instant.
func fixedClock(instant time.Time) func() time.Time {
	return func() time.Time { return instant }
}

func newTestController(t *testing.T, opts Options) *Controller {
	t.Helper()
	if opts.Target == nil {
		opts.Target = &WallClockTarget{Hour: 0, Minute: 0}
	}
	if opts.GetCurrentTime == nil {
		opts.GetCurrentTime = fixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	}
	if opts.UpdateInterval == 0 {
		// Keep the ticker out of the way; tests drive updates explicitly.
		opts.UpdateInterval = time.Hour
	}
	if opts.Catalog == nil {
		opts.Catalog = testCatalog()
	}
	c, err := NewController(opts)
	require.NoError(t, err)
	t.Cleanup(c.Destroy)
	return c
}

func TestNewController_RequiresTarget(t *testing.T) {
	_, err := NewController(Options{})
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestNewController_InitialStateRendered(t *testing.T) {
	c := newTestController(t, Options{InitialTimezone: "Europe/London"})

	assert.Equal(t, StateRunning, c.State())
	assert.NotEmpty(t, c.Snapshot().Points, "terminator computed before constructor returns")

	var selected *Marker
	for _, mk := range c.Markers() {
		if mk.Selected {
			mk := mk
			selected = &mk
		}
	}
	require.NotNil(t, selected)
	assert.Equal(t, "london", selected.City.ID)
}

func TestNewController_UnknownTimezoneSelectsNothing(t *testing.T) {
	c := newTestController(t, Options{InitialTimezone: "Mars/Olympus_Mons"})

	for _, mk := range c.Markers() {
		assert.False(t, mk.Selected)
	}
}

func TestNewController_CelebrationAtConstruction(t *testing.T) {
	// Construct at midnight UTC: London and UTC are inside the window.
	c := newTestController(t, Options{
		InitialTimezone: "UTC",
		GetCurrentTime:  fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	})

	assert.Equal(t, "Celebrations have begun in London and UTC.", c.Announcement())
	markup := c.Markup()
	assert.Contains(t, markup, "is-celebrating")
	assert.Contains(t, markup, "Celebrations have begun in London and UTC.")
}

func TestController_PauseResume(t *testing.T) {
	c := newTestController(t, Options{})

	c.Pause()
	assert.Equal(t, StatePaused, c.State())

	// Pause is idempotent.
	c.Pause()
	assert.Equal(t, StatePaused, c.State())

	c.Resume()
	assert.Equal(t, StateRunning, c.State())

	// Resume while running changes nothing.
	c.Resume()
	assert.Equal(t, StateRunning, c.State())
}

func TestController_ResumePublishesFreshUpdate(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	var mu sync.Mutex
	updates := 0
	bus.Subscribe(TopicUpdate, func(context.Context, event.Event) {
		mu.Lock()
		updates++
		mu.Unlock()
	})

	c := newTestController(t, Options{Bus: bus})
	mu.Lock()
	initial := updates
	mu.Unlock()
	require.Positive(t, initial, "construction publishes the initial update")

	c.Pause()
	c.Resume()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, initial+1, updates, "resume recomputes synchronously")
}

func TestController_PauseSuspendsAnnouncementClear(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	c := newTestController(t, Options{
		InitialTimezone: "UTC",
		GetCurrentTime: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
	})
	// No celebration at noon, so no clear timer is armed yet; shorten the
	// delay before triggering one.
	c.announcer.delay = 20 * time.Millisecond

	mu.Lock()
	now = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	mu.Unlock()
	c.UpdateCelebrationStates()
	require.Equal(t, "Celebrations have begun in UTC.", c.Announcement())

	c.Pause()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, "Celebrations have begun in UTC.", c.Announcement(),
		"clear timer must not fire while paused")

	c.Resume()
	require.Eventually(t, func() bool {
		return c.Announcement() == ""
	}, time.Second, 5*time.Millisecond, "clear timer re-arms on resume")
}

func TestController_VisibilityGatesWork(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	var mu sync.Mutex
	updates := 0
	bus.Subscribe(TopicUpdate, func(context.Context, event.Event) {
		mu.Lock()
		updates++
		mu.Unlock()
	})

	c := newTestController(t, Options{Bus: bus})
	require.True(t, c.Visible())

	c.SetVisible(false)
	assert.False(t, c.Visible())
	mu.Lock()
	hidden := updates
	mu.Unlock()

	// Becoming visible again triggers one synchronous recompute.
	c.SetVisible(true)
	assert.True(t, c.Visible())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, hidden+1, updates)
}

func TestController_PresenceSignalDrivesVisibility(t *testing.T) {
	signal := NewPresenceSignal()
	c := newTestController(t, Options{Visibility: signal})

	// Presence starts with zero viewers, so the automatic gate is closed
	// even though the manual override defaults to visible.
	assert.False(t, c.Visible())

	signal.HandlePresence(1)
	assert.True(t, c.Visible())

	signal.HandlePresence(0)
	assert.False(t, c.Visible())
}

func TestController_ManualAndAutoVisibilityCombine(t *testing.T) {
	signal := NewPresenceSignal()
	c := newTestController(t, Options{Visibility: signal})

	signal.HandlePresence(1)
	require.True(t, c.Visible())

	c.SetVisible(false)
	assert.False(t, c.Visible(), "manual override gates in addition to presence")

	c.SetVisible(true)
	assert.True(t, c.Visible())
}

func TestController_SetTimezonePublishesOnChangeOnly(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	var mu sync.Mutex
	updates := 0
	bus.Subscribe(TopicUpdate, func(context.Context, event.Event) {
		mu.Lock()
		updates++
		mu.Unlock()
	})

	c := newTestController(t, Options{InitialTimezone: "Europe/London", Bus: bus})
	mu.Lock()
	initial := updates
	mu.Unlock()

	c.SetTimezone("Europe/London")
	mu.Lock()
	assert.Equal(t, initial, updates, "no update published for a no-op selection")
	mu.Unlock()

	c.SetTimezone("Asia/Tokyo")
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, initial+1, updates)
}

func TestController_CelebrationEventPublished(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	var mu sync.Mutex
	var celebrated []CelebrationEvent
	bus.Subscribe(TopicCelebration, func(_ context.Context, e event.Event) {
		mu.Lock()
		celebrated = append(celebrated, e.Payload.(CelebrationEvent))
		mu.Unlock()
	})

	newTestController(t, Options{
		Bus:            bus,
		GetCurrentTime: fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
	})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, celebrated, 1)
	require.Len(t, celebrated[0].Cities, 2)
	assert.Equal(t, "london", celebrated[0].Cities[0].ID)
	assert.Equal(t, WallClockTarget{Hour: 0, Minute: 0}, celebrated[0].Target)
}

func TestController_ActivateMarkerFiresCallback(t *testing.T) {
	var mu sync.Mutex
	var got []City

	var c *Controller
	c = newTestController(t, Options{
		OnCitySelect: func(city City) {
			mu.Lock()
			got = append(got, city)
			mu.Unlock()
			// Re-entering the controller from the callback must not deadlock.
			c.SetTimezone(city.Timezone)
		},
	})

	c.ActivateMarker("tokyo")

	mu.Lock()
	require.Len(t, got, 1)
	assert.Equal(t, "tokyo", got[0].ID)
	mu.Unlock()

	for _, mk := range c.Markers() {
		if mk.City.ID == "tokyo" {
			assert.True(t, mk.Selected)
		}
	}
}

func TestController_ActivateUnknownMarker(t *testing.T) {
	called := false
	c := newTestController(t, Options{OnCitySelect: func(City) { called = true }})

	c.ActivateMarker("atlantis")
	assert.False(t, called)
}

func TestController_DestroyIsTerminalAndIdempotent(t *testing.T) {
	c := newTestController(t, Options{InitialTimezone: "Europe/London"})

	c.Destroy()
	assert.Equal(t, StateDestroyed, c.State())
	c.Destroy()
	assert.Equal(t, StateDestroyed, c.State())

	// Every operation is a silent no-op afterwards.
	c.Pause()
	c.Resume()
	c.SetTimezone("Asia/Tokyo")
	c.SetVisible(true)
	c.SetThemeStyles(map[string]string{"--x": "1"})
	c.UpdateTerminator()
	c.UpdateCelebrationStates()
	c.ActivateMarker("tokyo")

	assert.Equal(t, StateDestroyed, c.State())
	assert.Empty(t, c.Markup())
	assert.Nil(t, c.Markers())
}

func TestController_DestroyStopsTicker(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	var mu sync.Mutex
	updates := 0
	bus.Subscribe(TopicUpdate, func(context.Context, event.Event) {
		mu.Lock()
		updates++
		mu.Unlock()
	})

	c := newTestController(t, Options{Bus: bus, UpdateInterval: 5 * time.Millisecond})

	// Construction publishes one update; wait for at least one more driven
	// by the real ticker.
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return updates >= 2
	}, time.Second, time.Millisecond)

	// Destroy waits out the tick goroutine, so the count is settled once it
	// returns.
	c.Destroy()
	mu.Lock()
	frozen := updates
	mu.Unlock()

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, frozen, updates, "no updates after destroy")
}

func TestController_UpdateTerminatorTracksClock(t *testing.T) {
	now := time.Date(2025, 6, 15, 6, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	c := newTestController(t, Options{
		GetCurrentTime: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
	})
	before := c.Snapshot()

	mu.Lock()
	now = now.Add(6 * time.Hour)
	mu.Unlock()
	c.UpdateTerminator()

	after := c.Snapshot()
	assert.NotEqual(t, before.SubsolarLon, after.SubsolarLon)
	assert.Equal(t, after.ComputedAt, c.Now())
}

func TestController_ThemeStylesAppearInMarkup(t *testing.T) {
	c := newTestController(t, Options{})

	c.SetThemeStyles(map[string]string{"--map-night": "#001"})
	assert.Contains(t, c.Markup(), "--map-night:#001;")

	c.SetThemeStyles(map[string]string{"--map-day": "#ffe"})
	markup := c.Markup()
	assert.Contains(t, markup, "--map-day:#ffe;")
	assert.NotContains(t, markup, "--map-night", "replacement is atomic, not merged")
}

func TestController_IndependentInstances(t *testing.T) {
	a := newTestController(t, Options{InitialTimezone: "Europe/London"})
	b := newTestController(t, Options{InitialTimezone: "Asia/Tokyo"})

	a.Destroy()

	assert.Equal(t, StateDestroyed, a.State())
	assert.Equal(t, StateRunning, b.State())
	assert.NotEmpty(t, b.Markup())
}
