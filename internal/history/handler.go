package history

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const defaultLimit = 100

// Handler serves the celebration history endpoint.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates the history HTTP handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the history endpoints on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/map/history", h.handleHistory)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			historyWriteError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	records, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Warn("failed to list celebration history", zap.Error(err))
		historyWriteError(w, http.StatusInternalServerError, "failed to list history")
		return
	}
	if records == nil {
		records = []Record{}
	}
	historyWriteJSON(w, http.StatusOK, records)
}

func historyWriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func historyWriteError(w http.ResponseWriter, status int, msg string) {
	historyWriteJSON(w, status, map[string]any{"error": msg, "status": status})
}
