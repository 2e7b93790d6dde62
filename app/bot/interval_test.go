package bot

import (
	"errors"
	"testing"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		ok       bool
	}{
		{"10m", 600, true},
		{"2h", 7200, true},
		{"30s", 30, true},
		{"1h30m", 5400, true},
		{"90", 90, true},
		{"1d", 86400, true},
		{" 1H 5M ", 3900, true},
		{"30d", 2592000, true},
		{"29d 23h 59m 60s", 2592000, true},
		{"30d1s", 0, false},
		{"150000d", 0, false},
		{"99999999999999999999", 0, false},
		{"0", 0, false},
		{"0m", 0, false},
		{"soon", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seconds, ok := ParseInterval(tt.input)
			if ok != tt.ok {
				t.Errorf("Expected ok %v, got %v", tt.ok, ok)
			}
			if seconds != tt.expected {
				t.Errorf("Expected %d seconds, got %d", tt.expected, seconds)
			}
		})
	}
}

func TestFormatInterval(t *testing.T) {
	tests := []struct {
		seconds  int64
		expected string
	}{
		{0, "0s"},
		{45, "45s"},
		{600, "10m"},
		{5400, "1h 30m"},
		{86400, "1d"},
		{90061, "1d 1h 1m 1s"},
	}

	for _, tt := range tests {
		if got := FormatInterval(tt.seconds); got != tt.expected {
			t.Errorf("Expected '%s' for %d, got '%s'", tt.expected, tt.seconds, got)
		}
	}
}

func TestParseTMeLink(t *testing.T) {
	chat, msgID, err := ParseTMeLink("https://t.me/c/1234567890/99")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if chat != -1001234567890 {
		t.Errorf("Expected chat -1001234567890, got %d", chat)
	}
	if msgID != 99 {
		t.Errorf("Expected msg id 99, got %d", msgID)
	}

	if _, _, err := ParseTMeLink("https://t.me/SomeChannel/99"); !errors.Is(err, ErrPublicLink) {
		t.Errorf("Expected ErrPublicLink, got %v", err)
	}
	if _, _, err := ParseTMeLink("https://example.com/1"); err == nil {
		t.Error("Expected error for a non t.me link")
	}
}

func TestParseChatID(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		wantErr  bool
	}{
		{"-1001234567890", -1001234567890, false},
		{" -100555 ", -100555, false},
		{"https://t.me/c/555/1", -1000000000555, false},
		{"@channel", 0, true},
		{"0", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			chat, err := ParseChatID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
			if chat != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, chat)
			}
		})
	}
}
