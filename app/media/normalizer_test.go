package media

import (
	"strings"
	"testing"
)

func TestNormalize_ReleaseName(t *testing.T) {
	got := Normalize("Some.Show.S02E05.1080p.WEB-DL.x264-GROUP.mkv")
	if got != "Some Show S02E05" {
		t.Errorf("Expected 'Some Show S02E05', got '%s'", got)
	}
}

func TestNormalize_Cases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"whitespace", "   ", ""},
		{"plain title", "The Matrix.mkv", "The Matrix"},
		{"brackets and site", "[SubsPlease] www.example.org Frieren - 12 (1080p) {v2}.mkv", "Frieren 12"},
		{"hyphenated title kept", "Spider-Man.mp4", "Spider Man"},
		{"hdr and audio", "Dune.Part.Two.2024.2160p.AMZN.WEB-DL.DDP5.1.Atmos.HDR.H.265-FLUX.mkv", "Dune Part Two 2024"},
		{"audio bitrate", "Movie.2019.DD+5.1.x265.mkv", "Movie 2019"},
		{"case sensitive iT", "It.Follows.2014.iT.WEB-DL.mkv", "It Follows 2014"},
		{"unknown extension kept", "Some.Show.S01E01", "Some Show S01E01"},
		{"separator runs", "Title__Name...2020", "Title Name 2020"},
		{"path stripped", "/downloads/tv/Show.Name.S01E02.720p.HDTV.mkv", "Show Name S01E02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q): expected '%s', got '%s'", tt.input, tt.expected, got)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Some.Show.S02E05.1080p.WEB-DL.x264-GROUP.mkv",
		"[Group] Anime Title - 03 [1080p][HEVC].mkv",
		"Film..Name--2021__BluRay.x264.DTS-XYZ.mp4",
		"Plain Title",
		"www.site.com - Movie.2020.720p.mkv",
		"",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: '%s' then '%s'", input, once, twice)
		}
	}
}

func TestNormalize_NoNoiseLeft(t *testing.T) {
	inputs := []string{
		"Some.Show.S02E05.1080p.WEB-DL.x264-GROUP.mkv",
		"Movie.2019.BluRay.x265.10bit.HDR.DTS.mkv",
		"[a][b]{c} Title.NF.WEBRip.AAC.mp4",
		"Title.DD5.1.H.264.DoVi.mkv",
	}

	for _, input := range inputs {
		out := Normalize(input)
		for _, p := range markupPatterns {
			if p.MatchString(out) {
				t.Errorf("Output '%s' still matches %s", out, p)
			}
		}
		for _, p := range releasePatterns {
			if p.MatchString(out) {
				t.Errorf("Output '%s' still matches %s", out, p)
			}
		}
		if separatorRunPattern.MatchString(out) {
			t.Errorf("Output '%s' still contains separator runs", out)
		}
		if strings.Contains(out, "  ") {
			t.Errorf("Output '%s' contains double spaces", out)
		}
	}
}
