package web

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/notify"
	"github.com/streamvp/streamvp/internal/player"
	"github.com/streamvp/streamvp/internal/session"
	"github.com/streamvp/streamvp/internal/views"
)

// viewerCookieName identifies a browser across visits for resume positions.
// It is separate from the auth session so anonymous viewers resume too.
const viewerCookieName = "svp_viewer"

const viewerCookieMaxAge = 365 * 24 * time.Hour

// Handler renders the site pages and fronts the backend API for the
// browser. All backend traffic carries the viewer's stored token; the
// browser itself never sees it.
type Handler struct {
	backend  *api.Client
	sessions *session.Store
	recorder *views.Recorder
	players  *player.Manager
	notifier *notify.Notifier
	botName  string
}

type Config struct {
	Backend         *api.Client
	Sessions        *session.Store
	Recorder        *views.Recorder
	Players         *player.Manager
	Notifier        *notify.Notifier
	TelegramBotName string
}

func NewHandler(cfg Config) *Handler {
	return &Handler{
		backend:  cfg.Backend,
		sessions: cfg.Sessions,
		recorder: cfg.Recorder,
		players:  cfg.Players,
		notifier: cfg.Notifier,
		botName:  cfg.TelegramBotName,
	}
}

// ensureViewerID returns the browser's viewer id, minting and setting a
// cookie when the browser has none yet.
func (h *Handler) ensureViewerID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(viewerCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	id := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     viewerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(viewerCookieMaxAge / time.Second),
	})
	return id
}

func (h *Handler) viewerID(r *http.Request) string {
	if cookie, err := r.Cookie(viewerCookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func videoIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// listCatalog fetches the backend catalog for the session, falling back to
// the anonymous catalog when the stored token is stale. Private rows simply
// drop out of the anonymous view rather than erroring the whole page.
func (h *Handler) listCatalog(r *http.Request, sess session.Session) ([]api.Video, error) {
	videos, err := h.backend.ListVideos(r.Context(), sess.Token)
	if err != nil && sess.Token != "" && api.IsAuthFailure(err) {
		videos, err = h.backend.ListVideos(r.Context(), "")
	}
	return videos, err
}
