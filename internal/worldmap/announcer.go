package worldmap

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// How long announcement text stays in the live region before it is cleared.
// Screen readers skip repeated identical text, so the region must go empty
// between announcements for the next one to be read.
const announcerClearDelay = 6 * time.Second

// Announcer owns the live-region text for celebration announcements.
// Announcements arriving before the clear timer fires are merged into the
// pending text and the timer restarts.
type Announcer struct {
	mu        sync.Mutex
	names     []string
	text      string
	delay     time.Duration
	timer     *time.Timer
	onChange  func(text string)
	logger    *zap.Logger
	suspended bool
	destroyed bool
}

// NewAnnouncer creates an announcer. onChange is invoked (with the lock
// released) whenever the live-region text changes, including the clear.
func NewAnnouncer(onChange func(string), logger *zap.Logger) *Announcer {
	return &Announcer{
		delay:    announcerClearDelay,
		onChange: onChange,
		logger:   logger,
	}
}

// AnnounceCelebration adds the given cities to the pending announcement and
// (re)starts the clear timer.
func (a *Announcer) AnnounceCelebration(cityNames []string) {
	if len(cityNames) == 0 {
		return
	}

	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return
	}

	for _, n := range cityNames {
		if !containsName(a.names, n) {
			a.names = append(a.names, n)
		}
	}
	a.text = fmt.Sprintf("Celebrations have begun in %s.", joinNames(a.names))

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if !a.suspended {
		a.timer = time.AfterFunc(a.delay, a.clear)
	}

	text := a.text
	notify := a.onChange
	a.mu.Unlock()

	a.logger.Debug("celebration announced", zap.String("text", text))
	if notify != nil {
		notify(text)
	}
}

// Text returns the current live-region text ("" when cleared).
func (a *Announcer) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text
}

// Suspend cancels the pending clear timer without clearing the text. No
// clear fires while suspended, even one that already raced past the Stop.
// Resume re-arms the timer.
func (a *Announcer) Suspend() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suspended = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// Resume re-arms the clear timer when announcement text is still pending.
func (a *Announcer) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suspended = false
	if a.destroyed || a.text == "" || a.timer != nil {
		return
	}
	a.timer = time.AfterFunc(a.delay, a.clear)
}

// Destroy cancels the pending clear timer. Announce calls after Destroy are
// no-ops; a clear that already raced past Stop finds destroyed set and does
// nothing.
func (a *Announcer) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *Announcer) clear() {
	a.mu.Lock()
	if a.destroyed || a.suspended || a.text == "" {
		a.mu.Unlock()
		return
	}
	a.names = nil
	a.text = ""
	a.timer = nil
	notify := a.onChange
	a.mu.Unlock()

	if notify != nil {
		notify("")
	}
}

func containsName(names []string, n string) bool {
	for _, have := range names {
		if have == n {
			return true
		}
	}
	return false
}

// joinNames renders a human-readable list: "London", "London and Tokyo",
// "London, Tokyo, and Paris".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}
