package web

import (
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/catalog"
	"github.com/streamvp/streamvp/internal/httputil"
)

var catalogTemplate = template.Must(template.New("catalog").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>StreamVP</title>
    <style nonce="{{.Nonce}}">` + siteCSS + `
        .search-form {
            display: flex;
            gap: 0.5rem;
            margin-bottom: 1.5rem;
        }
        .search-form input {
            flex: 1;
            max-width: 420px;
            background: #0f172a;
            border: 1px solid #334155;
            border-radius: 8px;
            color: #e2e8f0;
            padding: 0.5rem 0.75rem;
            font-size: 0.875rem;
        }
        .search-form button {
            background: #38bdf8;
            border: none;
            border-radius: 8px;
            color: #0a1628;
            padding: 0.5rem 1rem;
            font-weight: 600;
            cursor: pointer;
        }
        .video-grid {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(240px, 1fr));
            gap: 1.25rem;
        }
        .video-card {
            background: #0f172a;
            border: 1px solid #1e293b;
            border-radius: 10px;
            overflow: hidden;
            transition: border-color 0.15s;
        }
        .video-card:hover { border-color: #38bdf8; }
        .thumb-box {
            position: relative;
            aspect-ratio: 16 / 9;
            background: #1e293b;
            display: flex;
            align-items: center;
            justify-content: center;
        }
        .thumb-box img {
            position: absolute;
            inset: 0;
            width: 100%;
            height: 100%;
            object-fit: cover;
        }
        .thumb-box img.broken { display: none; }
        .thumb-fallback {
            color: #475569;
            font-size: 2rem;
        }
        .video-card h3 {
            padding: 0.75rem 0.75rem 0.25rem;
            font-size: 0.95rem;
            font-weight: 600;
        }
        .video-card .card-meta {
            padding: 0 0.75rem 0.75rem;
            color: #64748b;
            font-size: 0.8rem;
        }
        .empty-state {
            color: #64748b;
            padding: 3rem 0;
            text-align: center;
        }
    </style>
</head>
<body>` + navbarHTML + `
    <div class="container">
        <form class="search-form" method="get" action="/">
            <input type="search" name="q" placeholder="Search videos" value="{{.Query}}">
            <button type="submit">Search</button>
        </form>
        {{if .LoadError}}
        <p class="page-error">The video catalog is unavailable right now. Please try again shortly.</p>
        {{else if .Videos}}
        <div class="video-grid">
            {{range .Videos}}
            <a class="video-card" href="/watch/{{.ID}}">
                <div class="thumb-box">
                    <span class="thumb-fallback">&#9654;</span>
                    <img src="/media/thumbnail/{{.ID}}" alt="" loading="lazy">
                </div>
                <h3>{{.Title}}</h3>
                <p class="card-meta">{{.CreatedAt.Format "Jan 2, 2006"}}</p>
            </a>
            {{end}}
        </div>
        {{else}}
        <p class="empty-state">{{if .Query}}Nothing matches your search.{{else}}No videos yet.{{end}}</p>
        {{end}}
    </div>
    <script nonce="{{.Nonce}}">` + navbarJS + `
        document.querySelectorAll('.thumb-box img').forEach(function(img) {
            img.addEventListener('error', function() { img.classList.add('broken'); });
        });
    </script>
</body>
</html>`))

type catalogPageData struct {
	User      *api.User
	BotName   string
	Nonce     string
	Query     string
	Videos    []api.Video
	LoadError bool
}

// Catalog renders the home page grid, newest first, optionally narrowed by
// a fuzzy title search.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Restore(r.Context(), r)
	h.ensureViewerID(w, r)

	data := catalogPageData{
		User:    sess.User,
		BotName: h.botName,
		Nonce:   httputil.NonceFromContext(r.Context()),
		Query:   strings.TrimSpace(r.URL.Query().Get("q")),
	}

	videos, err := h.listCatalog(r, sess)
	if err != nil {
		data.LoadError = true
	} else {
		catalog.SortNewestFirst(videos)
		data.Videos = catalog.Search(videos, data.Query)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := catalogTemplate.Execute(w, data); err != nil {
		log.Printf("failed to render catalog page: %v", err)
	}
}
