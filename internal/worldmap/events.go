package worldmap

import "time"

// Event topics published by the worldmap controller.
const (
	TopicUpdate       = "map.update"
	TopicCelebration  = "map.celebration"
	TopicAnnouncement = "map.announcement"
)

// UpdateEvent is the payload for map.update: one tick's worth of widget
// state, published after terminator and celebration recompute.
type UpdateEvent struct {
	Snapshot TerminatorSnapshot `json:"snapshot"`
	Markers  []Marker           `json:"markers"`
	Visible  bool               `json:"visible"`
}

// CelebrationEvent is the payload for map.celebration: the cities that
// crossed into their celebration window on this tick.
type CelebrationEvent struct {
	Cities  []City          `json:"cities"`
	Instant time.Time       `json:"instant"`
	Target  WallClockTarget `json:"target"`
}

// AnnouncementEvent is the payload for map.announcement: the current
// live-region text ("" when the region is cleared).
type AnnouncementEvent struct {
	Text string `json:"text"`
}
