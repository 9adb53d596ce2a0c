package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridian-live/meridian/internal/event"
	"github.com/meridian-live/meridian/internal/worldmap"
)

// Handler provides the WebSocket endpoint for real-time map updates.
type Handler struct {
	hub        *Hub
	controller *worldmap.Controller
	bus        *event.Bus
	logger     *zap.Logger
}

// Compile-time check that Handler implements the server interface.
var _ interface {
	RegisterRoutes(mux *http.ServeMux)
} = (*Handler)(nil)

// NewHandler creates a WebSocket handler and subscribes to map events. The
// controller may be attached later with SetController; until then new
// connections simply receive no initial state snapshot.
func NewHandler(bus *event.Bus, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:    NewHub(logger),
		bus:    bus,
		logger: logger,
	}
	h.subscribeToEvents()
	return h
}

// Hub exposes the hub for presence wiring.
func (h *Handler) Hub() *Hub {
	return h.hub
}

// SetController attaches the map controller used for per-connection state
// snapshots. Called once during startup, after the controller exists.
func (h *Handler) SetController(c *worldmap.Controller) {
	h.controller = c
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/map", h.handleMapStream)
}

// handleMapStream upgrades the connection to WebSocket and streams map
// events until the viewer disconnects.
func (h *Handler) handleMapStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The stream is read-only public state; any origin may subscribe.
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		id:     uuid.NewString(),
		send:   make(chan Message, 256),
		logger: h.logger,
	}

	h.hub.Register(client)

	// Queue the full current state so a new viewer renders immediately
	// instead of waiting for the next tick.
	if h.controller != nil {
		client.send <- Message{
			Type:      MessageState,
			Timestamp: h.controller.Now(),
			Data: worldmap.UpdateEvent{
				Snapshot: h.controller.Snapshot(),
				Markers:  h.controller.Markers(),
				Visible:  h.controller.Visible(),
			},
		}
	}

	// Run read and write pumps. When either exits, clean up.
	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	// readPump blocks until client disconnects.
	client.readPump(ctx)

	// Client disconnected -- stop write pump and unregister.
	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// subscribeToEvents forwards map controller events to all connected viewers.
func (h *Handler) subscribeToEvents() {
	if h.bus == nil {
		return
	}

	h.bus.Subscribe(worldmap.TopicUpdate, func(_ context.Context, e event.Event) {
		update, ok := e.Payload.(worldmap.UpdateEvent)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageUpdate,
			Timestamp: e.Timestamp,
			Data:      update,
		})
	})

	h.bus.Subscribe(worldmap.TopicCelebration, func(_ context.Context, e event.Event) {
		celebration, ok := e.Payload.(worldmap.CelebrationEvent)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageCelebration,
			Timestamp: e.Timestamp,
			Data:      celebration,
		})
	})

	h.bus.Subscribe(worldmap.TopicAnnouncement, func(_ context.Context, e event.Event) {
		announcement, ok := e.Payload.(worldmap.AnnouncementEvent)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageAnnouncement,
			Timestamp: e.Timestamp,
			Data:      announcement,
		})
	})

	h.logger.Info("subscribed to map events for WebSocket broadcasting")
}
