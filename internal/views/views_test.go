package views

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/streamvp/streamvp/internal/geoip"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
const iphoneUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

func newTestRecorder(t *testing.T) (*Recorder, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("create pgxmock pool: %v", err)
	}
	return NewRecorder(mock, geoip.New("")), mock
}

func TestRecordViewInsertsRow(t *testing.T) {
	rec, mock := newTestRecorder(t)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO video_views`).
		WithArgs(int64(7), pgxmock.AnyArg(), "direct", "Chrome", "desktop", "", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	req := httptest.NewRequest("GET", "/watch/7", nil)
	req.Header.Set("User-Agent", chromeUA)

	if err := rec.RecordView(context.Background(), 7, req); err != nil {
		t.Fatalf("record view: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRecordViewPropagatesInsertFailure(t *testing.T) {
	rec, mock := newTestRecorder(t)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO video_views`).
		WithArgs(int64(7), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	req := httptest.NewRequest("GET", "/watch/7", nil)
	req.Header.Set("User-Agent", chromeUA)

	if err := rec.RecordView(context.Background(), 7, req); err == nil {
		t.Fatal("expected insert failure to propagate")
	}
}

func TestCountsGroupsByVideo(t *testing.T) {
	rec, mock := newTestRecorder(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT video_id, COUNT\(\*\) FROM video_views`).
		WillReturnRows(pgxmock.NewRows([]string{"video_id", "count"}).
			AddRow(int64(1), int64(12)).
			AddRow(int64(2), int64(3)))

	counts, err := rec.Counts(context.Background())
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[1] != 12 || counts[2] != 3 {
		t.Errorf("unexpected counts: %v", counts)
	}
	if _, ok := counts[99]; ok {
		t.Error("unviewed video must be absent")
	}
}

func TestSavePositionUpserts(t *testing.T) {
	rec, mock := newTestRecorder(t)
	defer mock.Close()

	mock.ExpectExec(`INSERT INTO playback_positions`).
		WithArgs("sid-1", int64(5), 42.5, 120.0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := rec.SavePosition(context.Background(), "sid-1", 5, 42.5, 120); err != nil {
		t.Fatalf("save position: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSavePositionSkipsUnknownDuration(t *testing.T) {
	rec, mock := newTestRecorder(t)
	defer mock.Close()

	// No expectations registered: any query would fail the test.
	if err := rec.SavePosition(context.Background(), "sid-1", 5, 42.5, 0); err != nil {
		t.Fatalf("save position with zero duration: %v", err)
	}
	if err := rec.SavePosition(context.Background(), "", 5, 42.5, 120); err != nil {
		t.Fatalf("save position without session: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPositionResetNearEnd(t *testing.T) {
	rec, mock := newTestRecorder(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT position_seconds, duration_seconds FROM playback_positions`).
		WithArgs("sid-1", int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"position_seconds", "duration_seconds"}).AddRow(117.0, 120.0))

	if pos := rec.Position(context.Background(), "sid-1", 5); pos != 0 {
		t.Errorf("nearly-finished video must restart, got %v", pos)
	}
}

func TestPositionReturnsStoredValue(t *testing.T) {
	rec, mock := newTestRecorder(t)
	defer mock.Close()

	mock.ExpectQuery(`SELECT position_seconds, duration_seconds FROM playback_positions`).
		WithArgs("sid-1", int64(5)).
		WillReturnRows(pgxmock.NewRows([]string{"position_seconds", "duration_seconds"}).AddRow(42.0, 120.0))

	if pos := rec.Position(context.Background(), "sid-1", 5); pos != 42 {
		t.Errorf("expected stored position 42, got %v", pos)
	}
}

func TestParseDevice(t *testing.T) {
	if got := parseDevice(chromeUA); got != "desktop" {
		t.Errorf("expected desktop, got %q", got)
	}
	if got := parseDevice(iphoneUA); got != "mobile" {
		t.Errorf("expected mobile, got %q", got)
	}
	if got := parseDevice(""); got != "unknown" {
		t.Errorf("expected unknown, got %q", got)
	}
}

func TestCategorizeReferrer(t *testing.T) {
	cases := map[string]string{
		"":                                  "direct",
		"https://www.google.com/search?q=x": "google.com",
		"https://t.me/somechannel":          "t.me",
		"http://example.org":                "example.org",
	}
	for in, want := range cases {
		if got := categorizeReferrer(in); got != want {
			t.Errorf("categorizeReferrer(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	if got := ClientIP(req); got != "10.0.0.1:1234" {
		t.Errorf("expected remote addr, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.9" {
		t.Errorf("expected first forwarded hop, got %q", got)
	}
}
