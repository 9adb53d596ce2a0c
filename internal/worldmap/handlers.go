package worldmap

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Handler exposes the widget over REST. All state flows through the
// Controller, which serializes access internally.
type Handler struct {
	controller *Controller
	logger     *zap.Logger
}

// NewHandler creates the HTTP handler for the world map endpoints.
func NewHandler(controller *Controller, logger *zap.Logger) *Handler {
	return &Handler{controller: controller, logger: logger}
}

// RegisterRoutes registers the map endpoints on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/map/state", h.handleState)
	mux.HandleFunc("GET /api/v1/map/markup", h.handleMarkup)
	mux.HandleFunc("GET /api/v1/map/cities", h.handleCities)
	mux.HandleFunc("GET /api/v1/map/cities/{id}/sun", h.handleCitySun)
	mux.HandleFunc("POST /api/v1/map/timezone", h.handleSetTimezone)
	mux.HandleFunc("POST /api/v1/map/markers/{id}/activate", h.handleActivateMarker)
	mux.HandleFunc("POST /api/v1/map/pause", h.handlePause)
	mux.HandleFunc("POST /api/v1/map/resume", h.handleResume)
	mux.HandleFunc("POST /api/v1/map/visible", h.handleSetVisible)
	mux.HandleFunc("POST /api/v1/map/theme", h.handleSetTheme)
}

// stateResponse is the full widget state for GET /api/v1/map/state.
type stateResponse struct {
	State        State              `json:"state"`
	Visible      bool               `json:"visible"`
	Target       WallClockTarget    `json:"target"`
	Terminator   TerminatorSnapshot `json:"terminator"`
	Markers      []Marker           `json:"markers"`
	Announcement string             `json:"announcement"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	resp := stateResponse{
		State:        h.controller.State(),
		Visible:      h.controller.Visible(),
		Target:       h.controller.Target(),
		Terminator:   h.controller.Snapshot(),
		Markers:      h.controller.Markers(),
		Announcement: h.controller.Announcement(),
	}
	if resp.Markers == nil {
		resp.Markers = []Marker{}
	}
	mapWriteJSON(w, http.StatusOK, resp)
}

// handleMarkup returns the rendered widget fragment. A destroyed controller
// has no subtree, so the body is empty.
func (h *Handler) handleMarkup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(h.controller.Markup())); err != nil {
		h.logger.Debug("failed to write markup response", zap.Error(err))
	}
}

func (h *Handler) handleCities(w http.ResponseWriter, r *http.Request) {
	markers := h.controller.Markers()
	cities := make([]City, 0, len(markers))
	for _, m := range markers {
		cities = append(cities, m.City)
	}
	mapWriteJSON(w, http.StatusOK, cities)
}

func (h *Handler) handleCitySun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	city, ok := h.controller.CityByID(id)
	if !ok {
		mapWriteError(w, http.StatusNotFound, "unknown city")
		return
	}
	mapWriteJSON(w, http.StatusOK, CitySunTimes(city, h.controller.Now()))
}

// timezoneRequest selects a marker by IANA timezone identifier.
type timezoneRequest struct {
	Timezone string `json:"timezone"`
}

func (h *Handler) handleSetTimezone(w http.ResponseWriter, r *http.Request) {
	var req timezoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mapWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Timezone == "" {
		mapWriteError(w, http.StatusBadRequest, "timezone is required")
		return
	}
	h.controller.SetTimezone(req.Timezone)
	mapWriteJSON(w, http.StatusOK, map[string]string{"timezone": req.Timezone})
}

func (h *Handler) handleActivateMarker(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.controller.CityByID(id); !ok {
		mapWriteError(w, http.StatusNotFound, "unknown city")
		return
	}
	h.controller.ActivateMarker(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	h.controller.Pause()
	mapWriteJSON(w, http.StatusOK, map[string]State{"state": h.controller.State()})
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	h.controller.Resume()
	mapWriteJSON(w, http.StatusOK, map[string]State{"state": h.controller.State()})
}

// visibleRequest is the manual visibility override.
type visibleRequest struct {
	Visible bool `json:"visible"`
}

func (h *Handler) handleSetVisible(w http.ResponseWriter, r *http.Request) {
	var req visibleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mapWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.controller.SetVisible(req.Visible)
	mapWriteJSON(w, http.StatusOK, map[string]bool{"visible": h.controller.Visible()})
}

func (h *Handler) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var styles map[string]string
	if err := json.NewDecoder(r.Body).Decode(&styles); err != nil {
		mapWriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.controller.SetThemeStyles(styles)
	w.WriteHeader(http.StatusNoContent)
}

func mapWriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func mapWriteError(w http.ResponseWriter, status int, msg string) {
	mapWriteJSON(w, status, map[string]any{"error": msg, "status": status})
}
