package worldmap

import "sync"

// Signal is a source of automatic visibility information for the widget.
// Browsers get this from an intersection observer; server-side the natural
// signal is viewer presence on the WebSocket stream. Hosts without any
// automatic signal use ManualSignal and drive Controller.SetVisible
// themselves on their own layout events.
type Signal interface {
	// Start registers the controller's notification callback. The signal
	// may invoke it immediately with the current state.
	Start(notify func(visible bool))
	// Stop detaches the callback; no notification may fire afterwards.
	Stop()
}

// PresenceSignal derives visibility from connected viewer count: with zero
// clients the widget is rendered nowhere, so periodic work can stop.
type PresenceSignal struct {
	mu      sync.Mutex
	notify  func(bool)
	visible bool
}

// NewPresenceSignal creates a presence-driven visibility signal. The widget
// starts not-visible until the first client connects.
func NewPresenceSignal() *PresenceSignal {
	return &PresenceSignal{}
}

// Start implements Signal.
func (s *PresenceSignal) Start(notify func(bool)) {
	s.mu.Lock()
	s.notify = notify
	visible := s.visible
	s.mu.Unlock()
	notify(visible)
}

// Stop implements Signal.
func (s *PresenceSignal) Stop() {
	s.mu.Lock()
	s.notify = nil
	s.mu.Unlock()
}

// HandlePresence is the hub-side entry point, called with the current client
// count whenever a viewer connects or disconnects.
func (s *PresenceSignal) HandlePresence(clients int) {
	s.mu.Lock()
	visible := clients > 0
	changed := visible != s.visible
	s.visible = visible
	notify := s.notify
	s.mu.Unlock()

	if changed && notify != nil {
		notify(visible)
	}
}

// ManualSignal never reports on its own; the embedding host calls
// Controller.SetVisible from its layout-change events instead.
type ManualSignal struct{}

// Start implements Signal.
func (ManualSignal) Start(func(bool)) {}

// Stop implements Signal.
func (ManualSignal) Stop() {}
