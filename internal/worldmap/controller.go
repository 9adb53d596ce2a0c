package worldmap

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/meridian-live/meridian/internal/event"
	"go.uber.org/zap"
)

// ErrMissingTarget is returned by NewController when no wall-clock target is
// configured. This is the only construction failure; it happens before any
// timer starts.
var ErrMissingTarget = errors.New("worldmap: wall-clock target is required")

// State is the controller lifecycle state.
type State string

const (
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateDestroyed State = "destroyed"
)

// Defaults for the configurable update constants. The window and cadence
// only need to satisfy "each timezone celebrates once per target crossing":
// the interval must be shorter than the window so no crossing is skipped.
const (
	defaultUpdateInterval    = 30 * time.Second
	defaultCelebrationWindow = 5 * time.Minute
)

// Options configures a Controller.
type Options struct {
	// InitialTimezone is the observer's IANA timezone. An identifier that
	// matches no catalog city simply selects nothing.
	InitialTimezone string
	// Target is the local wall-clock celebration time. Required.
	Target *WallClockTarget
	// GetCurrentTime supplies the clock; defaults to time.Now. Injectable
	// so time-crossing behavior is deterministic under test.
	GetCurrentTime func() time.Time
	// UpdateInterval is the periodic tick cadence.
	UpdateInterval time.Duration
	// CelebrationWindow is how long after the target a city counts as
	// celebrating.
	CelebrationWindow time.Duration
	// ThemeStyles are CSS custom-property overrides applied to the widget
	// root.
	ThemeStyles map[string]string
	// OnCitySelect fires when a marker is activated. Advisory: activation
	// does not change the controller's timezone unless the callback wires
	// it back.
	OnCitySelect func(City)
	// Catalog overrides the featured-city list; defaults to DefaultCatalog.
	Catalog []City
	// Visibility is the automatic visibility signal; defaults to
	// ManualSignal (host drives SetVisible).
	Visibility Signal
	// Bus receives map.update / map.celebration / map.announcement events.
	// Optional.
	Bus *event.Bus
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Controller is the widget façade: it owns the update timer, composes the
// marker manager, terminator snapshot, announcer, and visibility gate, and
// runs the lifecycle state machine running ⇄ paused → destroyed.
type Controller struct {
	mu            sync.Mutex
	state         State
	clock         func() time.Time
	interval      time.Duration
	target        WallClockTarget
	markers       *MarkerManager
	announcer     *Announcer
	snapshot      TerminatorSnapshot
	theme         map[string]string
	visibility    Signal
	autoVisible   bool
	manualVisible bool
	onCitySelect  func(City)
	bus           *event.Bus
	logger        *zap.Logger
	ticker        *time.Ticker
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// NewController validates options, renders the initial snapshot
// synchronously, and starts the periodic update timer. Each controller owns
// independent state and an independent timer; instances never share
// anything.
func NewController(opts Options) (*Controller, error) {
	if opts.Target == nil {
		return nil, ErrMissingTarget
	}

	clock := opts.GetCurrentTime
	if clock == nil {
		clock = time.Now
	}
	interval := opts.UpdateInterval
	if interval <= 0 {
		interval = defaultUpdateInterval
	}
	window := opts.CelebrationWindow
	if window <= 0 {
		window = defaultCelebrationWindow
	}
	catalog := opts.Catalog
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	vis := opts.Visibility
	if vis == nil {
		vis = ManualSignal{}
	}

	c := &Controller{
		state:         StateRunning,
		clock:         clock,
		interval:      interval,
		target:        *opts.Target,
		theme:         copyTheme(opts.ThemeStyles),
		visibility:    vis,
		autoVisible:   true,
		manualVisible: true,
		onCitySelect:  opts.OnCitySelect,
		bus:           opts.Bus,
		logger:        logger,
	}
	c.markers = NewMarkerManager(catalog, c.target, window, logger)
	c.announcer = NewAnnouncer(func(text string) {
		c.publish(TopicAnnouncement, AnnouncementEvent{Text: text})
	}, logger)

	c.markers.SetTimezone(opts.InitialTimezone)

	// Initial snapshot renders before the constructor returns.
	c.mu.Lock()
	c.updateLocked(clock())
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.ticker = time.NewTicker(interval)
	c.wg.Add(1)
	go c.run(ctx)

	// The signal may fire immediately (e.g. presence starts not-visible),
	// so it attaches only after the controller is fully built.
	vis.Start(c.onVisibilityChange)

	pausedGauge.Set(0)
	logger.Info("world map controller started",
		zap.String("initial_timezone", opts.InitialTimezone),
		zap.String("target", c.target.String()),
		zap.Duration("update_interval", interval),
		zap.Duration("celebration_window", window),
	)

	return c, nil
}

// run is the periodic tick loop.
func (c *Controller) run(ctx context.Context) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.ticker.C:
			c.tick()
		}
	}
}

// tick executes one periodic update: skipped entirely while paused or not
// visible, so a hidden widget costs nothing per tick.
func (c *Controller) tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning || !c.visibleLocked() {
		return
	}
	c.updateLocked(c.clock())
}

// updateLocked performs one full recompute. Ordering is part of the
// contract: terminator first, then celebration state, and announcements only
// after marker state is already consistent.
func (c *Controller) updateLocked(now time.Time) {
	c.snapshot = ComputeTerminator(now)
	c.updateCelebrationsLocked(now)
	ticksTotal.Inc()
	c.publishUpdateLocked()
}

func (c *Controller) updateCelebrationsLocked(now time.Time) {
	newly := c.markers.UpdateCelebrationStates(now)
	if len(newly) == 0 {
		return
	}

	celebrationsTotal.Add(float64(len(newly)))
	names := make([]string, len(newly))
	for i, city := range newly {
		names[i] = city.Name
	}
	c.logger.Info("cities entered celebration window",
		zap.Strings("cities", names),
		zap.Time("instant", now),
	)

	// Markers are mutated above; the announcement describes settled state.
	c.announcer.AnnounceCelebration(names)
	c.publish(TopicCelebration, CelebrationEvent{Cities: newly, Instant: now, Target: c.target})
}

func (c *Controller) publishUpdateLocked() {
	c.publish(TopicUpdate, UpdateEvent{
		Snapshot: c.snapshot,
		Markers:  c.markers.Markers(),
		Visible:  c.visibleLocked(),
	})
}

func (c *Controller) publish(topic string, payload any) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(context.Background(), event.Event{
		Topic:     topic,
		Source:    "worldmap",
		Timestamp: c.clock(),
		Payload:   payload,
	})
}

func (c *Controller) visibleLocked() bool {
	return c.autoVisible && c.manualVisible
}

// onVisibilityChange reacts to the automatic visibility signal. Becoming
// visible triggers one synchronous recompute so the map is never stale right
// after it reappears.
func (c *Controller) onVisibilityChange(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return
	}
	was := c.visibleLocked()
	c.autoVisible = visible
	now := c.visibleLocked()
	visibleGauge.Set(boolToFloat(now))
	if !was && now && c.state == StateRunning {
		c.updateLocked(c.clock())
	}
}

// SetTimezone selects the marker for the given timezone; unknown identifiers
// deselect everything. Idempotent: repeating the same id changes nothing.
func (c *Controller) SetTimezone(timezoneID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return
	}
	if c.markers.SetTimezone(timezoneID) {
		c.publishUpdateLocked()
	}
}

// UpdateTerminator forces an immediate terminator recompute outside the
// timer cadence.
func (c *Controller) UpdateTerminator() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return
	}
	c.snapshot = ComputeTerminator(c.clock())
	c.publishUpdateLocked()
}

// UpdateCelebrationStates forces an immediate celebration recompute. New
// transitions reach the announcer; the caller gets nothing back.
func (c *Controller) UpdateCelebrationStates() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return
	}
	c.updateCelebrationsLocked(c.clock())
	c.publishUpdateLocked()
}

// SetThemeStyles replaces the widget's style overrides atomically.
// Independent of all other state; safe at any time, including after
// Destroy, where it is a no-op.
func (c *Controller) SetThemeStyles(styles map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return
	}
	c.theme = copyTheme(styles)
}

// Pause stops the periodic timer and the announcer's pending clear timer
// deterministically: neither fires after Pause returns. Live-region text
// survives the pause and its clear timer re-arms on Resume.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRunning {
		return
	}
	c.state = StatePaused
	c.ticker.Stop()
	c.announcer.Suspend()
	pausedGauge.Set(1)
	c.logger.Debug("world map paused")
}

// Resume restarts the periodic timer and recomputes synchronously so the
// widget does not wait out a full tick while stale.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePaused {
		return
	}
	c.state = StateRunning
	c.ticker.Reset(c.interval)
	c.announcer.Resume()
	pausedGauge.Set(0)
	c.logger.Debug("world map resumed")
	if c.visibleLocked() {
		c.updateLocked(c.clock())
	}
}

// SetVisible is the manual visibility override. It gates work in addition
// to the automatic signal: both must report visible for ticks to do work.
func (c *Controller) SetVisible(visible bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return
	}
	was := c.visibleLocked()
	c.manualVisible = visible
	now := c.visibleLocked()
	visibleGauge.Set(boolToFloat(now))
	if !was && now && c.state == StateRunning {
		c.updateLocked(c.clock())
	}
}

// ActivateMarker fires the selection callback for a marker activation. The
// callback runs without the controller lock held, so it may call back into
// the controller (e.g. SetTimezone) safely.
func (c *Controller) ActivateMarker(cityID string) {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return
	}
	city, ok := c.markers.CityByID(cityID)
	cb := c.onCitySelect
	c.mu.Unlock()

	if ok && cb != nil {
		cb(city)
	}
}

// Destroy tears the controller down: timer cancelled, visibility signal
// disconnected, announcer and markers destroyed. Terminal and idempotent;
// every other method is a silent no-op afterwards, so straggler callbacks
// that raced teardown cannot crash the host.
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.state == StateDestroyed {
		c.mu.Unlock()
		return
	}
	c.state = StateDestroyed
	c.ticker.Stop()
	c.announcer.Destroy()
	c.markers.Destroy()
	cancel := c.cancel
	c.mu.Unlock()

	cancel()
	c.visibility.Stop()
	c.wg.Wait()
	c.logger.Info("world map controller destroyed")
}

// State returns the lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible reports the effective visibility (automatic signal and manual
// override combined).
func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

// Now returns the controller's notion of the current instant.
func (c *Controller) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clock()
}

// Target returns the configured wall-clock target.
func (c *Controller) Target() WallClockTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Snapshot returns the most recent terminator snapshot.
func (c *Controller) Snapshot() TerminatorSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Markers returns the current marker states in tab order.
func (c *Controller) Markers() []Marker {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return nil
	}
	return c.markers.Markers()
}

// Announcement returns the current live-region text.
func (c *Controller) Announcement() string {
	return c.announcer.Text()
}

// CityByID resolves a catalog city.
func (c *Controller) CityByID(id string) (City, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return City{}, false
	}
	return c.markers.CityByID(id)
}

// Markup renders the full widget fragment. After Destroy the subtree is
// gone and the empty string is returned.
func (c *Controller) Markup() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateDestroyed {
		return ""
	}
	return renderWidget(c.markers.MarkerElements(), c.snapshot, c.announcer.Text(), c.theme)
}

func copyTheme(styles map[string]string) map[string]string {
	out := make(map[string]string, len(styles))
	for k, v := range styles {
		out[k] = v
	}
	return out
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
