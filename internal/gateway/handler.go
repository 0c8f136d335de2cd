package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avnordli/matchcast/internal/models"
	"github.com/avnordli/matchcast/internal/timeline"
)

// Handler serves the consumer read API over HTTP JSON and hosts the
// WebSocket upgrade endpoint.
type Handler struct {
	reader   TimelineReader
	playback Playback
	manager  *ConnectionManager
}

// NewHandler wires the read API around a session
func NewHandler(reader TimelineReader, playback Playback, manager *ConnectionManager) *Handler {
	return &Handler{reader: reader, playback: playback, manager: manager}
}

// Register mounts all consumer endpoints on the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/timeline/state", h.handleState)
	mux.HandleFunc("GET /api/timeline/events", h.handleAllEvents)
	mux.HandleFunc("GET /api/timeline/visible", h.handleVisible)
	mux.HandleFunc("GET /api/timeline/export", h.handleExport)
	mux.HandleFunc("POST /api/playback/seek", h.handleSeek)
	mux.HandleFunc("POST /api/playback/live", h.handleGoLive)
	mux.HandleFunc("POST /api/playback/navigate", h.handleNavigate)
	mux.HandleFunc("GET /ws", h.handleWebSocket)
}

type stateResponse struct {
	Minute         int            `json:"minute"`
	LiveMinute     int            `json:"live_minute"`
	DisplayTime    string         `json:"display_time"`
	Phase          timeline.Phase `json:"phase"`
	IsLive         bool           `json:"is_live"`
	TimeBehindLive float64        `json:"time_behind_live"`
	Score          timeline.Score `json:"score"`
	Consumers      int            `json:"consumers"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, stateResponse{
		Minute:         h.reader.CurrentMinute(),
		LiveMinute:     h.reader.LiveMinute(),
		DisplayTime:    timeline.DisplayTime(h.reader.UserTime()),
		Phase:          h.reader.CurrentPhase(),
		IsLive:         h.reader.IsLive(),
		TimeBehindLive: h.reader.TimeBehindLive(),
		Score:          h.playback.Score(),
		Consumers:      h.manager.ConnectionCount(),
	})
}

func (h *Handler) handleAllEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, toExported(h.reader.AllEvents()))
}

func (h *Handler) handleVisible(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("type"); raw != "" {
		writeJSON(w, toExported(h.reader.VisibleEventsOfType(models.EventType(raw))))
		return
	}
	writeJSON(w, toExported(h.reader.VisibleEvents()))
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.reader.ExportJSON()
	if err != nil {
		log.Error().Err(err).Msg("timeline export failed")
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

type seekRequest struct {
	Timestamp *float64 `json:"timestamp,omitempty"`
	Minute    *int     `json:"minute,omitempty"`
}

func (h *Handler) handleSeek(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid seek request", http.StatusBadRequest)
		return
	}
	switch {
	case req.Timestamp != nil:
		h.playback.JumpToTimestamp(*req.Timestamp)
	case req.Minute != nil:
		h.playback.JumpToMinute(*req.Minute)
	default:
		http.Error(w, "timestamp or minute required", http.StatusBadRequest)
		return
	}
	h.handleState(w, r)
}

func (h *Handler) handleGoLive(w http.ResponseWriter, r *http.Request) {
	h.playback.GoToLive()
	h.handleState(w, r)
}

type navigateRequest struct {
	Type      models.EventType `json:"type"`
	Direction string           `json:"direction"`
}

func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid navigate request", http.StatusBadRequest)
		return
	}

	var found bool
	switch req.Direction {
	case "previous":
		found = h.playback.JumpToPreviousEventOfType(req.Type)
	case "next", "":
		found = h.playback.JumpToNextEventOfType(req.Type)
	default:
		http.Error(w, "direction must be next or previous", http.StatusBadRequest)
		return
	}

	// No events of the requested type degrades to a no-op, not an
	// error; report it so the UI can skip its seek animation.
	writeJSON(w, map[string]bool{"navigated": found})
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.UpgradeConnection(w, r); err != nil {
		http.Error(w, "upgrade failed", http.StatusInternalServerError)
	}
}

func toExported(events []models.TimelineEvent) []timeline.ExportedEvent {
	out := make([]timeline.ExportedEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, timeline.ExportedEvent{
			ID:             ev.ID,
			VideoTimestamp: ev.VideoTimestamp,
			EventType:      ev.Type(),
			Payload:        ev.Payload,
			Metadata:       ev.Metadata,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
