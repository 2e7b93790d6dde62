package media

import (
	"testing"
)

func TestParse_Episode(t *testing.T) {
	raw := "Some.Show.S02E05.1080p.WEB-DL.x264-GROUP.mkv"
	guess := Parse(raw, Normalize(raw))

	if guess.Season != 2 {
		t.Errorf("Expected season 2, got %d", guess.Season)
	}
	if guess.Episode != 5 {
		t.Errorf("Expected episode 5, got %d", guess.Episode)
	}
	if guess.Type != TypeEpisode {
		t.Errorf("Expected type episode, got '%s'", guess.Type)
	}
	if guess.Resolution != "1080p" {
		t.Errorf("Expected resolution 1080p from the raw name, got '%s'", guess.Resolution)
	}
	if guess.Title == "" {
		t.Error("Expected a title")
	}

	if got := Classify(raw, guess); got != CategorySeries {
		t.Errorf("Expected series, got %s", got)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	guess := Parse("", "")
	if guess.Episode != 0 || guess.Season != 0 || guess.Year != 0 {
		t.Errorf("Expected zero guess for empty input, got %+v", guess)
	}
	if guess.HasEpisode() {
		t.Error("Expected no episode for empty input")
	}
}

func TestParse_DashEpisode(t *testing.T) {
	tests := []struct {
		raw     string
		title   string
		episode int
	}{
		{"[SubsPlease] Frieren - 12 (1080p).mkv", "Frieren", 12},
		{"[SubsPlease] Jujutsu Kaisen - 05 (1080p) [ABCD1234].mkv", "Jujutsu Kaisen", 5},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			guess := Parse(tt.raw, Normalize(tt.raw))
			if guess.Title != tt.title {
				t.Errorf("Expected title '%s', got '%s'", tt.title, guess.Title)
			}
			if guess.Episode != tt.episode {
				t.Errorf("Expected episode %d, got %d", tt.episode, guess.Episode)
			}
			if guess.Type != TypeEpisode {
				t.Errorf("Expected type episode, got '%s'", guess.Type)
			}
		})
	}
}

func TestTrimEpisodeNumber(t *testing.T) {
	tests := []struct {
		title    string
		episode  int
		expected string
	}{
		{"Frieren 12", 12, "Frieren"},
		{"Jujutsu Kaisen 05", 5, "Jujutsu Kaisen"},
		{"Apollo 13", 0, "Apollo 13"},
		{"Ocean's 11", 3, "Ocean's 11"},
		{"24", 24, "24"},
	}

	for _, tt := range tests {
		if got := trimEpisodeNumber(tt.title, tt.episode); got != tt.expected {
			t.Errorf("Expected '%s', got '%s'", tt.expected, got)
		}
	}
}
