package api

import "time"

// Video is the catalog entry shape owned by the backend. The front end only
// reads it, or triggers create/delete through admin actions.
type Video struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	IsPublic      bool      `json:"is_public"`
	ThumbnailPath string    `json:"thumbnail_path,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// User is the backend profile for a Telegram-authenticated visitor.
type User struct {
	ID         int64  `json:"id"`
	TelegramID string `json:"telegram_id"`
	Username   string `json:"username,omitempty"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
	IsAdmin    bool   `json:"is_admin"`
}

// DisplayName picks the best human label for a user chip.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "user " + u.TelegramID
}
