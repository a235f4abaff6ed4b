// Package session maps the browser's session cookie to the bearer token the
// backend issued at Telegram login. The token is the only durable artifact;
// the user profile is re-fetched from it on every request that needs it.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/database"
)

const CookieName = "svp_session"

const cookieMaxAge = 30 * 24 * time.Hour

// Backend is the slice of the API client the store depends on.
type Backend interface {
	LoginTelegram(ctx context.Context, claims json.RawMessage) (string, error)
	Me(ctx context.Context, token string) (*api.User, error)
}

// Session is the resolved state for one request. User != nil implies
// Token != "".
type Session struct {
	SID   string
	Token string
	User  *api.User
}

func (s Session) LoggedIn() bool { return s.User != nil }

func (s Session) IsAdmin() bool { return s.User != nil && s.User.IsAdmin }

type Store struct {
	db            database.DBTX
	backend       Backend
	secureCookies bool
}

func NewStore(db database.DBTX, backend Backend, secureCookies bool) *Store {
	return &Store{db: db, backend: backend, secureCookies: secureCookies}
}

// Restore resolves the request's session. Any failure degrades to an
// anonymous session; a token the backend rejects as unauthorized is deleted
// so the next request skips the round trip.
func (s *Store) Restore(ctx context.Context, r *http.Request) Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}
	}
	sid := cookie.Value

	var token string
	err = s.db.QueryRow(ctx,
		`UPDATE sessions SET last_seen = now() WHERE sid = $1 RETURNING token`,
		sid,
	).Scan(&token)
	if err != nil {
		return Session{}
	}

	if tokenExpired(token) {
		s.drop(ctx, sid)
		return Session{}
	}

	user, err := s.backend.Me(ctx, token)
	if err != nil {
		if api.IsAuthFailure(err) {
			s.drop(ctx, sid)
		} else {
			slog.Error("session: profile fetch failed", "error", err)
		}
		return Session{}
	}

	return Session{SID: sid, Token: token, User: user}
}

// Login forwards the Telegram widget claims verbatim, stores the issued
// token under a fresh session id, and re-fetches the profile before the
// session is considered established.
func (s *Store) Login(ctx context.Context, w http.ResponseWriter, claims json.RawMessage) (*api.User, error) {
	token, err := s.backend.LoginTelegram(ctx, claims)
	if err != nil {
		return nil, err
	}

	sid, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	if _, err := s.db.Exec(ctx,
		`INSERT INTO sessions (sid, token) VALUES ($1, $2)`, sid, token,
	); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	user, err := s.backend.Me(ctx, token)
	if err != nil {
		s.drop(ctx, sid)
		return nil, err
	}

	s.setCookie(w, sid, int(cookieMaxAge/time.Second))
	return user, nil
}

// Logout deletes the stored token and expires the cookie. No backend call.
func (s *Store) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		s.drop(ctx, cookie.Value)
	}
	s.setCookie(w, "", -1)
}

func (s *Store) drop(ctx context.Context, sid string) {
	if _, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE sid = $1`, sid); err != nil {
		slog.Error("session: delete failed", "error", err)
	}
}

func (s *Store) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// tokenExpired peeks at the token's exp claim without verifying the
// signature. Verification is the backend's job; this only avoids a doomed
// round trip. Tokens that don't parse as JWTs are treated as opaque and
// passed through.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func newSessionID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
