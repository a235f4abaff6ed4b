package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestListVideos_AnonymousSendsNoAuthHeader(t *testing.T) {
	var gotAuth string
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Video{{ID: 1, Title: "intro"}})
	})

	videos, err := client.ListVideos(context.Background(), "")
	if err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("anonymous request must not send Authorization header, got %q", gotAuth)
	}
	if len(videos) != 1 || videos[0].Title != "intro" {
		t.Errorf("unexpected videos: %+v", videos)
	}
}

func TestListVideos_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Video{})
	})

	if _, err := client.ListVideos(context.Background(), "tok-123"); err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

func TestGetVideo_NotFoundCarriesStatusAndMessage(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Video not found"})
	})

	_, err := client.GetVideo(context.Background(), "", 42)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %T", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", apiErr.Status)
	}
	if apiErr.Message != "Video not found" {
		t.Errorf("expected backend message, got %q", apiErr.Message)
	}
	if !IsNotFound(err) {
		t.Error("expected IsNotFound to match")
	}
}

func TestDecodeError_AcceptsErrorKey(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid token"})
	})

	_, err := client.Me(context.Background(), "stale")
	if !IsAuthFailure(err) {
		t.Fatalf("expected auth failure, got %v", err)
	}
}

func TestClient_NeverRetries(t *testing.T) {
	var calls int
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.ListVideos(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for 500")
	}
	if calls != 1 {
		t.Errorf("expected exactly one request, backend saw %d", calls)
	}
}

func TestLoginTelegram_ReturnsAccessToken(t *testing.T) {
	var gotBody map[string]any
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login/telegram" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"access_token": "issued-token"})
	})

	claims := json.RawMessage(`{"id":7,"first_name":"Ada","auth_date":1700000000,"hash":"abc"}`)
	token, err := client.LoginTelegram(context.Background(), claims)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "issued-token" {
		t.Errorf("expected issued token, got %q", token)
	}
	// Claims must arrive verbatim, not re-shaped.
	if gotBody["hash"] != "abc" || gotBody["id"] != float64(7) {
		t.Errorf("claims not forwarded verbatim: %v", gotBody)
	}
}

func TestLoginTelegram_MissingTokenIsError(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := client.LoginTelegram(context.Background(), json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected error when backend omits access_token")
	}
}

func TestOpenStream_ForwardsRangeHeader(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Range") != "bytes=100-" {
			t.Errorf("expected range header, got %q", r.Header.Get("Range"))
		}
		w.Header().Set("Content-Range", "bytes 100-199/200")
		w.WriteHeader(http.StatusPartialContent)
		w.Write([]byte("chunk"))
	})

	resp, err := client.OpenStream(context.Background(), "tok", 5, "bytes=100-")
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent {
		t.Errorf("expected 206, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Range") != "bytes 100-199/200" {
		t.Errorf("missing content range header")
	}
}

func TestOpenThumbnail_NotFound(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Thumbnail not found"})
	})

	_, err := client.OpenThumbnail(context.Background(), "", 9)
	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestUpload_PassesContentTypeThrough(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "multipart/form-data; boundary=xyz" {
			t.Errorf("unexpected content type %q", ct)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Video{ID: 3, Title: "uploaded", CreatedAt: time.Now()})
	})

	video, err := client.Upload(context.Background(), "tok", "multipart/form-data; boundary=xyz", nil)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if video.ID != 3 {
		t.Errorf("expected created video, got %+v", video)
	}
}

func TestUserDisplayName(t *testing.T) {
	cases := []struct {
		user User
		want string
	}{
		{User{Username: "ada", FirstName: "Ada"}, "ada"},
		{User{FirstName: "Ada"}, "Ada"},
		{User{TelegramID: "99"}, "user 99"},
	}
	for _, tc := range cases {
		if got := tc.user.DisplayName(); got != tc.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tc.user, got, tc.want)
		}
	}
}
