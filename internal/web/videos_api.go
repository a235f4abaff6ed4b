package web

import (
	"errors"
	"net/http"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/httputil"
	"github.com/streamvp/streamvp/internal/session"
	"github.com/streamvp/streamvp/internal/upload"
)

// requireAdmin restores the session and rejects everyone but admins.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (session.Session, bool) {
	sess := h.sessions.Restore(r.Context(), r)
	if !sess.IsAdmin() {
		httputil.WriteError(w, http.StatusForbidden, "admin access required")
		return sess, false
	}
	return sess, true
}

// CreateVideo accepts the admin upload form and forwards it to the backend.
func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	form, err := upload.Parse(r)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrMissingTitle),
			errors.Is(err, upload.ErrMissingVideo),
			errors.Is(err, upload.ErrNotVideo),
			errors.Is(err, upload.ErrBadThumbnail):
			httputil.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			httputil.WriteError(w, http.StatusBadRequest, "could not read upload")
		}
		return
	}
	defer form.Close()

	video, err := form.Forward(r.Context(), h.backend, sess.Token)
	if err != nil {
		writeBackendError(w, err)
		return
	}

	h.notifier.VideoUploaded(video, sess.User.DisplayName())
	httputil.WriteJSON(w, http.StatusCreated, video)
}

// DeleteVideo removes a video through the backend.
func (h *Handler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	id, idOK := videoIDParam(r)
	if !idOK {
		httputil.WriteError(w, http.StatusNotFound, "video not found")
		return
	}

	// Best effort title lookup so the notification names what was removed.
	title := ""
	if video, err := h.backend.GetVideo(r.Context(), sess.Token, id); err == nil {
		title = video.Title
	}

	if err := h.backend.DeleteVideo(r.Context(), sess.Token, id); err != nil {
		writeBackendError(w, err)
		return
	}

	h.notifier.VideoDeleted(id, title, sess.User.DisplayName())
	w.WriteHeader(http.StatusNoContent)
}

func writeBackendError(w http.ResponseWriter, err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		httputil.WriteError(w, apiErr.Status, apiErr.Message)
		return
	}
	httputil.WriteError(w, http.StatusBadGateway, "video service unavailable")
}
