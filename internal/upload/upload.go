package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/streamvp/streamvp/internal/api"
)

// Limits for the incoming multipart form. The video itself streams from
// the temp file the multipart parser spills to, not from memory.
const (
	maxFormMemory   = 32 << 20
	maxUploadSize   = 2 << 30
	sniffHeaderSize = 3072
)

var (
	ErrMissingTitle = errors.New("title is required")
	ErrMissingVideo = errors.New("a video file is required")
	ErrNotVideo     = errors.New("uploaded file is not a video")
	ErrBadThumbnail = errors.New("thumbnail must be an image")
)

// Form is a validated upload ready to forward to the backend. Content
// sniffing has already consumed the head of each file; Video and Thumbnail
// replay those bytes before the rest of the part.
type Form struct {
	Title       string
	Description string
	IsPublic    bool

	Video         io.Reader
	VideoName     string
	Thumbnail     io.Reader
	ThumbnailName string

	closers []io.Closer
}

// Parse validates the browser's multipart form. It rejects the request
// before any backend traffic when the title is blank, the video part is
// missing, or the sniffed content types are wrong.
func Parse(r *http.Request) (*Form, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return nil, fmt.Errorf("parse upload form: %w", err)
	}

	form := &Form{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		IsPublic:    r.FormValue("is_public") == "true" || r.FormValue("is_public") == "on",
	}
	if form.Title == "" {
		return nil, ErrMissingTitle
	}

	video, header, err := r.FormFile("video_file")
	if err != nil {
		return nil, ErrMissingVideo
	}
	form.closers = append(form.closers, video)
	form.VideoName = header.Filename

	form.Video, err = sniffed(video, "video/", ErrNotVideo)
	if err != nil {
		form.Close()
		return nil, err
	}

	if thumb, thumbHeader, err := r.FormFile("thumbnail"); err == nil {
		form.closers = append(form.closers, thumb)
		form.ThumbnailName = thumbHeader.Filename

		form.Thumbnail, err = sniffed(thumb, "image/", ErrBadThumbnail)
		if err != nil {
			form.Close()
			return nil, err
		}
	}

	return form, nil
}

// sniffed checks the part's real content type against the wanted prefix and
// returns a reader that replays the sniffed head followed by the remainder.
func sniffed(file multipart.File, wantPrefix string, wantErr error) (io.Reader, error) {
	head := make([]byte, sniffHeaderSize)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	mtype := mimetype.Detect(head[:n])
	if !strings.HasPrefix(mtype.String(), wantPrefix) {
		return nil, wantErr
	}

	return io.MultiReader(bytes.NewReader(head[:n]), file), nil
}

// Close releases the temp files behind the multipart parts.
func (f *Form) Close() {
	for _, c := range f.closers {
		_ = c.Close()
	}
}

// Forward streams the validated form to the backend as a fresh multipart
// body. Nothing is buffered beyond the pipe window.
func (f *Form) Forward(ctx context.Context, client *api.Client, token string) (*api.Video, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(f.write(mw))
	}()

	video, err := client.Upload(ctx, token, mw.FormDataContentType(), pr)
	if err != nil {
		// Unblock the writer goroutine when the backend bailed before
		// reading the whole body.
		pr.CloseWithError(err)
		return nil, err
	}
	return video, nil
}

func (f *Form) write(mw *multipart.Writer) error {
	if err := mw.WriteField("title", f.Title); err != nil {
		return err
	}
	if f.Description != "" {
		if err := mw.WriteField("description", f.Description); err != nil {
			return err
		}
	}
	if err := mw.WriteField("is_public", fmt.Sprintf("%t", f.IsPublic)); err != nil {
		return err
	}

	part, err := mw.CreateFormFile("video_file", f.VideoName)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f.Video); err != nil {
		return fmt.Errorf("stream video: %w", err)
	}

	if f.Thumbnail != nil {
		part, err := mw.CreateFormFile("thumbnail_file", f.ThumbnailName)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, f.Thumbnail); err != nil {
			return fmt.Errorf("stream thumbnail: %w", err)
		}
	}

	return mw.Close()
}
