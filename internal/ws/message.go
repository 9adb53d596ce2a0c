// Package ws streams world map updates to connected viewers over WebSocket.
package ws

import (
	"time"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	// MessageState is sent once on connect with the full widget state.
	MessageState MessageType = "map.state"
	// MessageUpdate carries one tick's terminator and marker state.
	MessageUpdate MessageType = "map.update"
	// MessageCelebration carries the cities that just entered their window.
	MessageCelebration MessageType = "map.celebration"
	// MessageAnnouncement carries the live-region text.
	MessageAnnouncement MessageType = "map.announcement"
)

// Message is the envelope for all WebSocket messages. Data holds the
// topic-specific payload: worldmap.UpdateEvent for map.update,
// worldmap.CelebrationEvent for map.celebration, and
// worldmap.AnnouncementEvent for map.announcement.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}
