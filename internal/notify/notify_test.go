package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/streamvp/streamvp/internal/api"
)

func TestUnconfiguredNotifierIsInert(t *testing.T) {
	n := New("", 0)
	if n.Enabled() {
		t.Error("empty token must disable the notifier")
	}

	// Must not panic without a bot.
	n.VideoUploaded(&api.Video{ID: 1, Title: "demo"}, "admin")
	n.VideoDeleted(1, "demo", "admin")
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	if n.Enabled() {
		t.Error("nil notifier must report disabled")
	}
	n.VideoUploaded(&api.Video{ID: 1, Title: "demo"}, "admin")
}

func TestUploadedMessage(t *testing.T) {
	video := &api.Video{ID: 42, Title: "launch recap", IsPublic: true, CreatedAt: time.Now()}
	msg := uploadedMessage(video, "dana")

	for _, want := range []string{"dana", `"launch recap"`, "#42", "public"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestUploadedMessagePrivateVisibility(t *testing.T) {
	msg := uploadedMessage(&api.Video{ID: 7, Title: "draft"}, "dana")
	if !strings.Contains(msg, "private") {
		t.Errorf("message %q should mark unlisted videos private", msg)
	}
}

func TestDeletedMessage(t *testing.T) {
	msg := deletedMessage(9, "old stream", "dana")
	for _, want := range []string{"dana", `"old stream"`, "#9"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}
