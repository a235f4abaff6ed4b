package web

import (
	"html/template"
	"log"
	"log/slog"
	"net/http"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/catalog"
	"github.com/streamvp/streamvp/internal/httputil"
)

var adminTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Admin — StreamVP</title>
    <style nonce="{{.Nonce}}">` + siteCSS + `
        .admin-head {
            display: flex;
            align-items: center;
            justify-content: space-between;
            margin-bottom: 1.25rem;
        }
        .admin-head h1 { font-size: 1.3rem; }
        .upload-link {
            background: #38bdf8;
            color: #0a1628;
            border-radius: 8px;
            padding: 0.5rem 1rem;
            font-weight: 600;
            font-size: 0.875rem;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            font-size: 0.875rem;
        }
        th, td {
            text-align: left;
            padding: 0.6rem 0.75rem;
            border-bottom: 1px solid #1e293b;
        }
        th { color: #64748b; font-weight: 600; }
        td a { color: #38bdf8; }
        .visibility-tag {
            font-size: 0.75rem;
            border-radius: 4px;
            padding: 0.1rem 0.4rem;
            background: #1e293b;
            color: #94a3b8;
        }
        .visibility-tag.public { color: #4ade80; }
        .delete-btn {
            background: none;
            border: 1px solid #7f1d1d;
            border-radius: 6px;
            color: #fca5a5;
            padding: 0.3rem 0.7rem;
            font-size: 0.8rem;
            cursor: pointer;
        }
        .delete-btn:hover { background: #7f1d1d; color: #fff; }
        .delete-btn:disabled { opacity: 0.5; cursor: default; }
        #admin-error { display: none; margin-bottom: 1rem; }
        #admin-error.visible { display: block; }
        .empty-state { color: #64748b; padding: 2rem 0; text-align: center; }
    </style>
</head>
<body>` + navbarHTML + `
    <div class="container">
        <div class="admin-head">
            <h1>Video administration</h1>
            <a class="upload-link" href="/admin/upload">Upload video</a>
        </div>
        <p class="page-error" id="admin-error"></p>
        {{if .LoadError}}
        <p class="page-error">The video catalog is unavailable right now.</p>
        {{else if .Videos}}
        <table>
            <thead>
                <tr><th>Title</th><th>Visibility</th><th>Uploaded</th><th>Views</th><th></th></tr>
            </thead>
            <tbody>
                {{range .Videos}}
                <tr data-video-id="{{.ID}}">
                    <td><a href="/watch/{{.ID}}">{{.Title}}</a></td>
                    <td>{{if .IsPublic}}<span class="visibility-tag public">public</span>{{else}}<span class="visibility-tag">private</span>{{end}}</td>
                    <td>{{.CreatedAt.Format "Jan 2, 2006"}}</td>
                    <td>{{index $.ViewCounts .ID}}</td>
                    <td><button class="delete-btn" data-video-id="{{.ID}}" data-title="{{.Title}}">Delete</button></td>
                </tr>
                {{end}}
            </tbody>
        </table>
        {{else}}
        <p class="empty-state">No videos yet. Upload the first one.</p>
        {{end}}
    </div>
    <script nonce="{{.Nonce}}">` + navbarJS + `
        var errorBox = document.getElementById('admin-error');
        document.querySelectorAll('.delete-btn').forEach(function(btn) {
            btn.addEventListener('click', function() {
                var id = btn.dataset.videoId;
                if (!confirm('Delete "' + btn.dataset.title + '"? This cannot be undone.')) return;
                btn.disabled = true;
                errorBox.classList.remove('visible');
                fetch('/api/videos/' + id, { method: 'DELETE' }).then(function(res) {
                    if (res.status === 204) {
                        var row = document.querySelector('tr[data-video-id="' + id + '"]');
                        if (row) row.remove();
                        return;
                    }
                    return res.json().then(function(body) {
                        throw new Error(body.error || 'delete failed');
                    });
                }).catch(function(err) {
                    btn.disabled = false;
                    errorBox.textContent = 'Could not delete the video: ' + err.message;
                    errorBox.classList.add('visible');
                });
            });
        });
    </script>
</body>
</html>`))

type adminPageData struct {
	User       *api.User
	BotName    string
	Nonce      string
	Videos     []api.Video
	ViewCounts map[int64]int64
	LoadError  bool
}

// Admin renders the management dashboard. Non-admins are sent back to the
// catalog before any backend fetch happens.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Restore(r.Context(), r)
	if !sess.IsAdmin() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := adminPageData{
		User:       sess.User,
		BotName:    h.botName,
		Nonce:      httputil.NonceFromContext(r.Context()),
		ViewCounts: map[int64]int64{},
	}

	videos, err := h.backend.ListVideos(r.Context(), sess.Token)
	if err != nil {
		data.LoadError = true
	} else {
		catalog.SortNewestFirst(videos)
		data.Videos = videos
	}

	if counts, err := h.recorder.Counts(r.Context()); err == nil {
		data.ViewCounts = counts
	} else {
		slog.Error("load view counts failed", "error", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminTemplate.Execute(w, data); err != nil {
		log.Printf("failed to render admin page: %v", err)
	}
}
