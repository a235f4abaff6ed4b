package web

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/streamvp/streamvp/internal/api"
)

// Stream proxies video bytes from the backend so the browser never needs
// the API token. Range headers pass through both ways, which is what lets
// the seek bar work.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess := h.sessions.Restore(r.Context(), r)
	resp, err := h.backend.OpenStream(r.Context(), sess.Token, id, r.Header.Get("Range"))
	if err != nil {
		writeMediaError(w, r, err)
		return
	}
	defer resp.Body.Close()

	copyMediaHeaders(w, resp)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// Seeks and tab closes abort the copy; nothing to do.
		slog.Debug("stream copy ended early", "video_id", id, "error", err)
	}
}

// Thumbnail proxies the poster image with a short shared cache.
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess := h.sessions.Restore(r.Context(), r)
	resp, err := h.backend.OpenThumbnail(r.Context(), sess.Token, id)
	if err != nil {
		writeMediaError(w, r, err)
		return
	}
	defer resp.Body.Close()

	copyMediaHeaders(w, resp)
	w.Header().Set("Cache-Control", "public, max-age=300")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func copyMediaHeaders(w http.ResponseWriter, resp *http.Response) {
	for _, name := range []string{"Content-Type", "Content-Length", "Content-Range", "Accept-Ranges", "Last-Modified", "ETag"} {
		if v := resp.Header.Get(name); v != "" {
			w.Header().Set(name, v)
		}
	}
}

func writeMediaError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case api.IsNotFound(err):
		http.NotFound(w, r)
	case api.IsAuthFailure(err):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "media unavailable", http.StatusBadGateway)
	}
}
