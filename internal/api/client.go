package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a thin wrapper over the catalog backend's REST API. It attaches
// bearer credentials when a token is supplied and maps non-2xx responses to
// *Error. Retry and backoff are caller policy, never the client's.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ListVideos fetches the catalog. Anonymous calls see public videos; admin
// tokens additionally see private ones. Ordering is not part of the backend
// contract; callers sort explicitly.
func (c *Client) ListVideos(ctx context.Context, token string) ([]Video, error) {
	var videos []Video
	if err := c.doJSON(ctx, http.MethodGet, "/api/videos/", token, nil, &videos); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

func (c *Client) GetVideo(ctx context.Context, token string, id int64) (*Video, error) {
	var video Video
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/videos/%d", id), token, nil, &video); err != nil {
		return nil, fmt.Errorf("get video %d: %w", id, err)
	}
	return &video, nil
}

func (c *Client) DeleteVideo(ctx context.Context, token string, id int64) error {
	if err := c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/videos/%d", id), token, nil, nil); err != nil {
		return fmt.Errorf("delete video %d: %w", id, err)
	}
	return nil
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// LoginTelegram forwards the widget's identity claims verbatim and returns
// the bearer token the backend issued.
func (c *Client) LoginTelegram(ctx context.Context, claims json.RawMessage) (string, error) {
	var resp loginResponse
	if err := c.doRaw(ctx, http.MethodPost, "/api/auth/login/telegram", "", "application/json", bytes.NewReader(claims), &resp); err != nil {
		return "", fmt.Errorf("telegram login: %w", err)
	}
	if resp.AccessToken == "" {
		return "", &Error{Status: http.StatusBadGateway, Message: "login response missing access token"}
	}
	return resp.AccessToken, nil
}

func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me", token, nil, &user); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &user, nil
}

// Upload streams an already-assembled multipart body to the backend and
// returns the created video.
func (c *Client) Upload(ctx context.Context, token, contentType string, body io.Reader) (*Video, error) {
	var video Video
	if err := c.doRaw(ctx, http.MethodPost, "/api/videos/upload", token, contentType, body, &video); err != nil {
		return nil, fmt.Errorf("upload video: %w", err)
	}
	return &video, nil
}

// OpenStream starts a media request, forwarding the Range header so seeking
// works end to end. The caller owns the returned response body.
func (c *Client) OpenStream(ctx context.Context, token string, id int64, rangeHeader string) (*http.Response, error) {
	return c.open(ctx, fmt.Sprintf("/api/videos/stream/%d", id), token, rangeHeader)
}

// OpenThumbnail starts a thumbnail image request. The caller owns the
// returned response body.
func (c *Client) OpenThumbnail(ctx context.Context, token string, id int64) (*http.Response, error) {
	return c.open(ctx, fmt.Sprintf("/api/videos/thumbnail/%d", id), token, "")
}

func (c *Client) open(ctx context.Context, path, token, rangeHeader string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		apiErr := decodeError(resp)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, apiErr
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.doRaw(ctx, method, path, token, "application/json", reader, result)
}

func (c *Client) doRaw(ctx context.Context, method, path, token, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if result == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError extracts a message from an error body. The backend reports
// either {"detail": ...} or {"error": ...} depending on the endpoint.
func decodeError(resp *http.Response) *Error {
	var body struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	message := ""
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body); err == nil {
		message = body.Detail
		if message == "" {
			message = body.Error
		}
	}
	return &Error{Status: resp.StatusCode, Message: message}
}
