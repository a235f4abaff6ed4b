package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
)

// adminBackend layers /api/users/me and delete handling over the fixed
// three-video catalog.
func adminBackend(t *testing.T) http.Handler {
	t.Helper()
	catalog := threeVideoBackend(t)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/users/me":
			w.Header().Set("Content-Type", "application/json")
			if r.Header.Get("Authorization") != "Bearer admin-token" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"detail":"invalid token"}`))
				return
			}
			w.Write([]byte(`{"id":1,"username":"dana","first_name":"Dana","is_admin":true}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			catalog.ServeHTTP(w, r)
		}
	})
}

// expectAdminRestore arms the session lookup for the sid-admin cookie.
func expectAdminRestore(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(`UPDATE sessions SET last_seen`).
		WithArgs("sid-admin").
		WillReturnRows(pgxmock.NewRows([]string{"token"}).AddRow("admin-token"))
}

func adminRequest(method, target string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.AddCookie(&http.Cookie{Name: "svp_session", Value: "sid-admin"})
	return req
}

func TestAdminPageListsVideosWithViewCounts(t *testing.T) {
	_, router, mock := newTestHandler(t, adminBackend(t))

	expectAdminRestore(mock)
	mock.ExpectQuery(`SELECT video_id, COUNT\(\*\) FROM video_views`).
		WillReturnRows(pgxmock.NewRows([]string{"video_id", "count"}).
			AddRow(int64(3), int64(12)).
			AddRow(int64(1), int64(4)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminRequest(http.MethodGet, "/admin"))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Newest", "Middle", "Oldest", ">12<", "Delete", "/admin/upload"} {
		if !strings.Contains(body, want) {
			t.Errorf("admin page missing %q", want)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestAdminPageRedirectsAnonymousVisitors(t *testing.T) {
	backendHits := 0
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHits++
	})
	_, router, _ := newTestHandler(t, backend)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Errorf("expected redirect to catalog, got %q", loc)
	}
	if backendHits != 0 {
		t.Error("anonymous visitors must be redirected before any backend fetch")
	}
}

func TestUploadPageRequiresAdmin(t *testing.T) {
	_, router, mock := newTestHandler(t, adminBackend(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/upload", nil))
	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected redirect for anonymous visitor, got %d", rec.Code)
	}

	expectAdminRestore(mock)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, adminRequest(http.MethodGet, "/admin/upload"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
	for _, want := range []string{"video_file", "thumbnail", "is_public", "upload-form"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("upload form missing %q", want)
		}
	}
}

func TestDeleteVideoRemovesThroughBackend(t *testing.T) {
	_, router, mock := newTestHandler(t, adminBackend(t))

	expectAdminRestore(mock)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, adminRequest(http.MethodDelete, "/api/videos/2"))

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteVideoForbiddenForAnonymous(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("anonymous delete must not reach the backend: %s", r.URL.Path)
	})
	_, router, _ := newTestHandler(t, backend)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/videos/2", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}
