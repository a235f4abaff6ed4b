// Package views records watch-page activity: one row per view with a coarse
// client fingerprint, and per-session resume positions fed through the
// player controller.
package views

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"github.com/streamvp/streamvp/internal/database"
	"github.com/streamvp/streamvp/internal/geoip"
)

type Recorder struct {
	db  database.DBTX
	geo *geoip.Resolver
}

func NewRecorder(db database.DBTX, geo *geoip.Resolver) *Recorder {
	return &Recorder{db: db, geo: geo}
}

// RecordView stores one view row for a watch-page render. Callers run it in
// a goroutine with its own timeout; a failed insert is logged, never
// surfaced to the viewer.
func (rec *Recorder) RecordView(ctx context.Context, videoID int64, r *http.Request) error {
	ip := ClientIP(r)
	ua := r.UserAgent()
	country, city := rec.geo.Lookup(ip)

	_, err := rec.db.Exec(ctx,
		`INSERT INTO video_views (video_id, viewer_hash, referrer, browser, device, country, city)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		videoID, viewerHash(ip, ua), categorizeReferrer(r.Header.Get("Referer")),
		parseBrowser(ua), parseDevice(ua), country, city,
	)
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// Counts returns per-video view totals for the admin dashboard. Videos with
// no views are absent from the map.
func (rec *Recorder) Counts(ctx context.Context) (map[int64]int64, error) {
	rows, err := rec.db.Query(ctx,
		`SELECT video_id, COUNT(*) FROM video_views GROUP BY video_id`)
	if err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var id, n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan view count: %w", err)
		}
		counts[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate view counts: %w", err)
	}
	return counts, nil
}

// SavePosition upserts the resume position for a session/video pair. The
// caller is expected to have clamped the values through player.Controller;
// an unknown duration means metadata never loaded and nothing is stored.
func (rec *Recorder) SavePosition(ctx context.Context, sid string, videoID int64, position, duration float64) error {
	if duration <= 0 || sid == "" {
		return nil
	}
	_, err := rec.db.Exec(ctx,
		`INSERT INTO playback_positions (sid, video_id, position_seconds, duration_seconds, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (sid, video_id)
		 DO UPDATE SET position_seconds = $3, duration_seconds = $4, updated_at = now()`,
		sid, videoID, position, duration,
	)
	if err != nil {
		return fmt.Errorf("save position: %w", err)
	}
	return nil
}

// Position returns the stored resume position in seconds, or 0 when none
// exists. Positions within the final few seconds are treated as finished and
// reset to the start.
func (rec *Recorder) Position(ctx context.Context, sid string, videoID int64) float64 {
	if sid == "" {
		return 0
	}
	var position, duration float64
	err := rec.db.QueryRow(ctx,
		`SELECT position_seconds, duration_seconds FROM playback_positions WHERE sid = $1 AND video_id = $2`,
		sid, videoID,
	).Scan(&position, &duration)
	if err != nil {
		return 0
	}
	if duration > 0 && duration-position < 5 {
		return 0
	}
	return position
}

func viewerHash(ip, ua string) string {
	h := sha256.Sum256([]byte(ip + "|" + ua))
	return fmt.Sprintf("%x", h[:8])
}

// ClientIP prefers the first X-Forwarded-For hop over the socket address.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if first, _, ok := strings.Cut(forwarded, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(forwarded)
	}
	return r.RemoteAddr
}

func parseBrowser(uaString string) string {
	if uaString == "" {
		return "unknown"
	}
	name, _ := useragent.New(uaString).Browser()
	if name == "" {
		return "unknown"
	}
	return name
}

func parseDevice(uaString string) string {
	if uaString == "" {
		return "unknown"
	}
	ua := useragent.New(uaString)
	switch {
	case ua.Bot():
		return "bot"
	case ua.Mobile():
		return "mobile"
	default:
		return "desktop"
	}
}

func categorizeReferrer(referer string) string {
	if referer == "" {
		return "direct"
	}
	host := referer
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if host == "" {
		return "direct"
	}
	return host
}
