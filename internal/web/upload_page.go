package web

import (
	"html/template"
	"log"
	"net/http"

	"github.com/streamvp/streamvp/internal/api"
	"github.com/streamvp/streamvp/internal/httputil"
)

var uploadTemplate = template.Must(template.New("upload").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>Upload — StreamVP</title>
    <style nonce="{{.Nonce}}">` + siteCSS + `
        .upload-form {
            max-width: 520px;
            display: flex;
            flex-direction: column;
            gap: 1rem;
        }
        .upload-form h1 { font-size: 1.3rem; }
        .field label {
            display: block;
            font-size: 0.8rem;
            color: #94a3b8;
            margin-bottom: 0.3rem;
        }
        .field input[type=text], .field textarea {
            width: 100%;
            background: #0f172a;
            border: 1px solid #334155;
            border-radius: 8px;
            color: #e2e8f0;
            padding: 0.5rem 0.75rem;
            font-size: 0.875rem;
            font-family: inherit;
        }
        .field textarea { min-height: 90px; resize: vertical; }
        .field input[type=file] { color: #94a3b8; font-size: 0.85rem; }
        .checkbox-field {
            display: flex;
            align-items: center;
            gap: 0.5rem;
            font-size: 0.875rem;
            color: #cbd5e1;
        }
        .submit-btn {
            background: #38bdf8;
            border: none;
            border-radius: 8px;
            color: #0a1628;
            padding: 0.6rem 1.2rem;
            font-weight: 600;
            font-size: 0.9rem;
            cursor: pointer;
            align-self: flex-start;
        }
        .submit-btn:disabled { opacity: 0.5; cursor: default; }
        #upload-error { display: none; }
        #upload-error.visible { display: block; }
    </style>
</head>
<body>` + navbarHTML + `
    <div class="container">
        <form class="upload-form" id="upload-form">
            <h1>Upload a video</h1>
            <p class="page-error" id="upload-error"></p>
            <div class="field">
                <label for="title">Title</label>
                <input type="text" id="title" name="title" required maxlength="200">
            </div>
            <div class="field">
                <label for="description">Description</label>
                <textarea id="description" name="description"></textarea>
            </div>
            <div class="field">
                <label for="video_file">Video file</label>
                <input type="file" id="video_file" name="video_file" accept="video/*" required>
            </div>
            <div class="field">
                <label for="thumbnail">Thumbnail (optional)</label>
                <input type="file" id="thumbnail" name="thumbnail" accept="image/*">
            </div>
            <label class="checkbox-field">
                <input type="checkbox" id="is_public" name="is_public" value="true">
                Publicly visible
            </label>
            <button class="submit-btn" type="submit" id="submit-btn">Upload</button>
        </form>
    </div>
    <script nonce="{{.Nonce}}">` + navbarJS + `
        var form = document.getElementById('upload-form');
        var submitBtn = document.getElementById('submit-btn');
        var uploadError = document.getElementById('upload-error');

        function fail(message) {
            uploadError.textContent = message;
            uploadError.classList.add('visible');
            submitBtn.disabled = false;
            submitBtn.textContent = 'Upload';
        }

        form.addEventListener('submit', function(e) {
            e.preventDefault();
            uploadError.classList.remove('visible');

            if (!document.getElementById('title').value.trim()) {
                fail('A title is required.');
                return;
            }
            if (!document.getElementById('video_file').files.length) {
                fail('Choose a video file to upload.');
                return;
            }

            submitBtn.disabled = true;
            submitBtn.textContent = 'Uploading…';

            fetch('/api/videos', {
                method: 'POST',
                body: new FormData(form)
            }).then(function(res) {
                if (res.status === 201) {
                    window.location.href = '/admin';
                    return;
                }
                return res.json().then(function(body) {
                    throw new Error(body.error || 'upload failed');
                });
            }).catch(function(err) {
                fail('Upload failed: ' + err.message);
            });
        });
    </script>
</body>
</html>`))

type uploadPageData struct {
	User    *api.User
	BotName string
	Nonce   string
}

// UploadPage renders the admin upload form.
func (h *Handler) UploadPage(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Restore(r.Context(), r)
	if !sess.IsAdmin() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := uploadPageData{
		User:    sess.User,
		BotName: h.botName,
		Nonce:   httputil.NonceFromContext(r.Context()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := uploadTemplate.Execute(w, data); err != nil {
		log.Printf("failed to render upload page: %v", err)
	}
}
