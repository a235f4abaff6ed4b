package web

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/catalog"
	"github.com/streamvp/streamvp/internal/httputil"
)

const moreVideosLimit = 6

var watchTemplate = template.Must(template.New("watch").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Video.Title}} — StreamVP</title>
    <meta property="og:title" content="{{.Video.Title}}">
    <meta property="og:type" content="video.other">
    <style nonce="{{.Nonce}}">` + siteCSS + playerCSS + `
        .watch-layout {
            display: grid;
            grid-template-columns: minmax(0, 1fr) 280px;
            gap: 1.5rem;
        }
        @media (max-width: 900px) {
            .watch-layout { grid-template-columns: minmax(0, 1fr); }
        }
        .video-shell {
            position: relative;
            background: #000;
            border-radius: 10px;
            overflow: hidden;
            aspect-ratio: 16 / 9;
        }
        .video-shell video {
            width: 100%;
            height: 100%;
            display: block;
        }
        .watch-title {
            margin-top: 1rem;
            font-size: 1.4rem;
            font-weight: 600;
        }
        .watch-meta {
            margin-top: 0.4rem;
            color: #94a3b8;
            font-size: 0.875rem;
        }
        .watch-description {
            margin-top: 0.75rem;
            color: #cbd5e1;
            font-size: 0.9rem;
            line-height: 1.5;
            white-space: pre-line;
        }
        .adjacent-nav {
            display: flex;
            justify-content: space-between;
            margin-top: 1rem;
            gap: 1rem;
        }
        .adjacent-nav a, .adjacent-nav span {
            font-size: 0.85rem;
            color: #38bdf8;
        }
        .adjacent-nav span { color: #334155; }
        .rail h2 {
            font-size: 1rem;
            margin-bottom: 0.75rem;
            color: #e2e8f0;
        }
        .rail-card {
            display: flex;
            gap: 0.6rem;
            margin-bottom: 0.75rem;
            align-items: center;
        }
        .rail-card img {
            width: 110px;
            aspect-ratio: 16 / 9;
            object-fit: cover;
            border-radius: 6px;
            background: #1e293b;
        }
        .rail-card .rail-title {
            font-size: 0.85rem;
            color: #cbd5e1;
        }
        .rail-card:hover .rail-title { color: #fff; }
    </style>
</head>
<body>` + navbarHTML + `
    <div class="container">
        <div class="watch-layout">
            <div>
                <div class="video-shell" id="video-shell">
                    <video id="player" src="{{.StreamURL}}" preload="metadata" playsinline></video>
` + playerControlsHTML + `
                </div>
                <div class="adjacent-nav">
                    {{if .Previous}}<a href="/watch/{{.Previous.ID}}">&#8592; {{.Previous.Title}}</a>{{else}}<span>&#8592; Previous</span>{{end}}
                    {{if .Next}}<a href="/watch/{{.Next.ID}}">{{.Next.Title}} &#8594;</a>{{else}}<span>Next &#8594;</span>{{end}}
                </div>
                <h1 class="watch-title">{{.Video.Title}}</h1>
                <p class="watch-meta">{{.Video.CreatedAt.Format "Jan 2, 2006"}}</p>
                {{if .Video.Description}}<p class="watch-description">{{.Video.Description}}</p>{{end}}
            </div>
            <aside class="rail">
                {{if .Others}}
                <h2>More videos</h2>
                {{range .Others}}
                <a class="rail-card" href="/watch/{{.ID}}">
                    <img src="/media/thumbnail/{{.ID}}" alt="" loading="lazy">
                    <span class="rail-title">{{.Title}}</span>
                </a>
                {{end}}
                {{end}}
            </aside>
        </div>
    </div>
    <script nonce="{{.Nonce}}">` + navbarJS + `
        var videoID = {{.Video.ID}};
        var generation = {{.Generation}};
        var resumeAt = {{.ResumeAt}};
        var player = document.getElementById('player');
        var container = document.getElementById('video-shell');
        var controls = document.getElementById('player-controls');
        var overlay = document.getElementById('player-overlay');
        var overlayBtn = document.getElementById('play-overlay-btn');
        var playBtn = document.getElementById('play-btn');
        var backBtn = document.getElementById('skip-back-btn');
        var fwdBtn = document.getElementById('skip-fwd-btn');
        var seekBar = document.getElementById('seek-bar');
        var seekProgress = document.getElementById('seek-progress');
        var seekBuffered = document.getElementById('seek-buffered');
        var seekThumb = document.getElementById('seek-thumb');
        var timeCurrent = document.getElementById('time-current');
        var timeDuration = document.getElementById('time-duration');
        var muteBtn = document.getElementById('mute-btn');
        var volumeSlider = document.getElementById('volume-slider');
        var fullscreenBtn = document.getElementById('fullscreen-btn');
        var spinner = document.getElementById('player-spinner');
        var errorOverlay = document.getElementById('player-error');
        var hideTimer = null;
` + playerJS + `
        if (resumeAt > 0) {
            player.addEventListener('loadedmetadata', function() {
                if (resumeAt < player.duration) player.currentTime = resumeAt;
            }, { once: true });
        }

        function report(event) {
            var payload = JSON.stringify({
                generation: generation,
                event: event,
                position: player.currentTime || 0,
                duration: (isFinite(player.duration) && player.duration) || 0
            });
            fetch('/api/playback/' + videoID, {
                method: 'POST',
                headers: { 'Content-Type': 'application/json' },
                body: payload,
                keepalive: true
            }).catch(function(){});
        }
        player.addEventListener('play', function() { report('play'); });
        player.addEventListener('pause', function() { report('pause'); });
        player.addEventListener('ended', function() { report('ended'); });
        player.addEventListener('error', function() { report('error'); });
        setInterval(function() {
            if (!player.paused && !player.ended) report('time');
        }, 5000);
        window.addEventListener('pagehide', function() { report('time'); });
    </script>
</body>
</html>`))

var watchLockedTemplate = template.Must(template.New("locked").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Sign in required — StreamVP</title>
    <style nonce="{{.Nonce}}">` + siteCSS + `
        .locked-box {
            text-align: center;
            padding: 4rem 1rem;
            color: #94a3b8;
        }
        .locked-box h1 { color: #e2e8f0; font-size: 1.3rem; margin-bottom: 0.5rem; }
    </style>
</head>
<body>` + navbarHTML + `
    <div class="container">
        <div class="locked-box">
            <h1>This video is private</h1>
            <p>Sign in with Telegram to watch it.</p>
        </div>
    </div>
    <script nonce="{{.Nonce}}">` + navbarJS + `</script>
</body>
</html>`))

type watchPageData struct {
	User       *api.User
	BotName    string
	Nonce      string
	Video      *api.Video
	StreamURL  string
	Previous   *api.Video
	Next       *api.Video
	Others     []api.Video
	ResumeAt   float64
	Generation int64
}

type lockedPageData struct {
	User    *api.User
	BotName string
	Nonce   string
}

// Watch renders the playback page for one video.
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	id, ok := videoIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sess := h.sessions.Restore(r.Context(), r)
	nonce := httputil.NonceFromContext(r.Context())

	video, err := h.backend.GetVideo(r.Context(), sess.Token, id)
	if err != nil {
		switch {
		case api.IsNotFound(err):
			http.NotFound(w, r)
		case api.IsAuthFailure(err):
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			if err := watchLockedTemplate.Execute(w, lockedPageData{User: sess.User, BotName: h.botName, Nonce: nonce}); err != nil {
				log.Printf("failed to render locked page: %v", err)
			}
		default:
			http.Error(w, "video service unavailable", http.StatusBadGateway)
		}
		return
	}

	viewerID := h.ensureViewerID(w, r)
	generation := h.players.Begin(viewerID, id, fmt.Sprintf("/media/stream/%d", id))

	data := watchPageData{
		User:       sess.User,
		BotName:    h.botName,
		Nonce:      nonce,
		Video:      video,
		StreamURL:  fmt.Sprintf("/media/stream/%d", id),
		ResumeAt:   h.recorder.Position(r.Context(), viewerID, id),
		Generation: generation,
	}

	// The rail and prev/next are best effort; the page renders without
	// them when the catalog call fails.
	if all, err := h.listCatalog(r, sess); err == nil {
		catalog.SortNewestFirst(all)
		data.Next, data.Previous = catalog.Neighbors(all, id)
		data.Others = catalog.Others(all, id, moreVideosLimit)
	}

	// Record the view off the request path so a slow insert never delays
	// the page.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.recorder.RecordView(ctx, id, r); err != nil {
			slog.Error("record view failed", "video_id", id, "error", err)
		}
	}()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := watchTemplate.Execute(w, data); err != nil {
		log.Printf("failed to render watch page: %v", err)
	}
}
