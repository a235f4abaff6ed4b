package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/streamvp/streamvp/internal/httputil"
	"github.com/streamvp/streamvp/internal/player"
)

type playbackReport struct {
	Generation int64   `json:"generation"`
	Event      string  `json:"event"`
	Position   float64 `json:"position"`
	Duration   float64 `json:"duration"`
}

// Playback ingests watch-page telemetry. Reports carry the generation the
// page was served with; anything from an older page load for the same
// video is discarded so a stale tab cannot clobber fresher state.
func (h *Handler) Playback(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	viewerID := h.viewerID(r)
	if viewerID == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 4096))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid report")
		return
	}
	var report playbackReport
	if err := json.Unmarshal(body, &report); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid report")
		return
	}

	var position, duration float64
	accepted := h.players.Apply(viewerID, id, report.Generation, func(c *player.Controller) {
		switch report.Event {
		case "play":
			c.HandleEvent(player.EventPlay)
		case "pause":
			c.HandleEvent(player.EventPause)
		case "ended":
			c.HandleEvent(player.EventEnded)
		case "error":
			c.HandleEvent(player.EventError)
		}
		c.OnTimeUpdate(report.Position, report.Duration)
		position = c.Position()
		duration = c.Duration()
	})
	if !accepted {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.recorder.SavePosition(r.Context(), viewerID, id, position, duration); err != nil {
		slog.Error("save playback position failed", "video_id", id, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
