package session

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/httputil"
)

// Handler exposes the session endpoints the navbar calls: the single
// registration point for the Telegram widget's global callback, and logout.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// LoginTelegram receives the widget's identity claims from the page's
// onTelegramAuth callback and establishes a session.
func (h *Handler) LoginTelegram(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 8192))
	if err != nil || !json.Valid(body) {
		httputil.WriteError(w, http.StatusBadRequest, "invalid login payload")
		return
	}

	user, err := h.store.Login(r.Context(), w, body)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			httputil.WriteError(w, apiErr.Status, apiErr.Message)
			return
		}
		httputil.WriteError(w, http.StatusBadGateway, "login unavailable")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.store.Logout(r.Context(), w, r)
	w.WriteHeader(http.StatusNoContent)
}
