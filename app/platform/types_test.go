package platform

import (
	"strings"
	"testing"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		msg      *Message
		expected string
	}{
		{
			name:     "named document",
			msg:      &Message{Media: &File{Name: "Some.Show.S02E05.1080p.mkv", Kind: MediaDocument}},
			expected: "Some.Show.S02E05.1080p.mkv",
		},
		{
			name:     "generic video with caption",
			msg:      &Message{Caption: "Dune: Part Two (2024)\nmore text", Media: &File{Name: "video_2024.mp4", UniqueID: "u1", Kind: MediaVideo}},
			expected: "Dune Part Two (2024).mp4",
		},
		{
			name:     "unnamed video without caption",
			msg:      &Message{Media: &File{UniqueID: "u2", Kind: MediaVideo}},
			expected: "video_u2.mp4",
		},
		{
			name:     "unnamed document without caption",
			msg:      &Message{Media: &File{UniqueID: "u3", Kind: MediaDocument}},
			expected: "doc_u3",
		},
		{
			name:     "unknown audio name kept",
			msg:      &Message{Media: &File{Name: "unknown track.mp3", Kind: MediaAudio}},
			expected: "unknown track.mp3",
		},
		{
			name:     "no media",
			msg:      &Message{Text: "hello"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.Filename(); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestCaptionHintLength(t *testing.T) {
	msg := &Message{Caption: strings.Repeat("a", 100), Media: &File{Kind: MediaVideo}}

	if got := msg.Filename(); got != strings.Repeat("a", 60)+".mp4" {
		t.Errorf("Expected 60 character hint, got '%s'", got)
	}
}

func TestSearchText(t *testing.T) {
	msg := &Message{Caption: "HDCAM Release", Media: &File{Name: "Movie.2024.mkv", Kind: MediaDocument}}

	got := msg.SearchText()
	if !strings.Contains(got, "hdcam release") || !strings.Contains(got, "movie.2024.mkv") {
		t.Errorf("Expected lowercased caption and filename, got '%s'", got)
	}
}

func TestFromTelegram(t *testing.T) {
	msg := FromTelegram(&gotgbot.Message{
		MessageId: 42,
		Chat:      gotgbot.Chat{Id: -100123},
		Caption:   "cap",
		Video:     &gotgbot.Video{FileId: "f1", FileUniqueId: "u1", FileName: "a.mp4", FileSize: 2048},
	})

	if msg.ID != 42 || msg.ChatID != -100123 {
		t.Errorf("Expected 42/-100123, got %d/%d", msg.ID, msg.ChatID)
	}
	if msg.Media == nil || msg.Media.Kind != MediaVideo {
		t.Fatal("Expected video media")
	}
	if msg.Media.Size != 2048 {
		t.Errorf("Expected size 2048, got %d", msg.Media.Size)
	}

	if FromTelegram(&gotgbot.Message{Text: "plain"}).Media != nil {
		t.Error("Expected no media for text message")
	}
}
