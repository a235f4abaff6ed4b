package notify

import (
	"fmt"
	"log"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/streamvp/streamvp/internal/api"
)

// Notifier posts catalog change announcements to a Telegram chat. A nil
// Notifier and a Notifier without a configured bot are both safe to call;
// every send is best effort and failures only log.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New creates a notifier for the given bot token and chat. An empty token
// disables the notifier without error so the server runs unconfigured.
func New(token string, chatID int64) *Notifier {
	if token == "" || chatID == 0 {
		return &Notifier{}
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Printf("notify: telegram bot unavailable: %v", err)
		return &Notifier{}
	}

	log.Printf("Telegram notifications enabled via @%s", bot.Self.UserName)
	return &Notifier{bot: bot, chatID: chatID}
}

// Enabled reports whether sends will actually reach Telegram.
func (n *Notifier) Enabled() bool {
	return n != nil && n.bot != nil
}

// VideoUploaded announces a newly published video.
func (n *Notifier) VideoUploaded(video *api.Video, uploader string) {
	n.send(uploadedMessage(video, uploader))
}

// VideoDeleted announces a removal from the catalog.
func (n *Notifier) VideoDeleted(videoID int64, title, deleter string) {
	n.send(deletedMessage(videoID, title, deleter))
}

func (n *Notifier) send(text string) {
	if !n.Enabled() {
		return
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		slog.Error("notify: telegram send failed", "error", err)
	}
}

func uploadedMessage(video *api.Video, uploader string) string {
	visibility := "private"
	if video.IsPublic {
		visibility = "public"
	}
	return fmt.Sprintf("New video uploaded by %s: %q (#%d, %s)", uploader, video.Title, video.ID, visibility)
}

func deletedMessage(videoID int64, title, deleter string) string {
	return fmt.Sprintf("Video deleted by %s: %q (#%d)", deleter, title, videoID)
}
