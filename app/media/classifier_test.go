package media

import (
	"testing"
)

func TestClassify_Keywords(t *testing.T) {
	tests := []struct {
		filename string
		expected Category
	}{
		{"Naruto.Shippuden.Anime.E01.mkv", CategoryAnime},
		{"Attack on Titan OVA 03.mkv", CategoryAnime},
		{"進撃の巨人 アニメ 01.mp4", CategoryAnime},
		{"Crash.Landing.on.You.KDrama.E01.mkv", CategoryKDrama},
		{"Hospital Playlist Korean Drama S01E02.mkv", CategoryKDrama},
		{"Story.of.Yanxi.Palace.C-Drama.E10.mkv", CategoryCDrama},
		{"Unnatural.J-Drama.E01.mkv", CategoryJDrama},
		{"Parasite.2019.Korean.Movie.mkv", CategoryKMovie},
		{"Shoplifters.2018.JMovie.mkv", CategoryJMovie},
		{"RRR.2022.Telugu.1080p.mkv", CategoryIndian},
		{"Dangal.2016.Hindi.BluRay.mkv", CategoryIndian},
	}

	for _, tt := range tests {
		got := Classify(tt.filename, Guess{})
		if got != tt.expected {
			t.Errorf("Classify(%q): expected %s, got %s", tt.filename, tt.expected, got)
		}
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// Matches both the anime and the japanese drama rule.
	got := Classify("Anime.vs.Japanese.Drama.Special.mkv", Guess{})
	if got != CategoryAnime {
		t.Errorf("Expected anime to win over jdrama, got %s", got)
	}

	got = Classify("Korean.Drama.Hindi.Dub.mkv", Guess{})
	if got != CategoryKDrama {
		t.Errorf("Expected kdrama to win over indian, got %s", got)
	}
}

func TestClassify_Fallback(t *testing.T) {
	if got := Classify("Some.Show.S02E05.mkv", Guess{Type: TypeEpisode}); got != CategorySeries {
		t.Errorf("Expected series for episode guess, got %s", got)
	}
	if got := Classify("The.Matrix.1999.mkv", Guess{Type: TypeMovie}); got != CategoryMovie {
		t.Errorf("Expected movie for movie guess, got %s", got)
	}
	if got := Classify("", Guess{}); got != CategoryMovie {
		t.Errorf("Expected movie for empty input, got %s", got)
	}
}

func TestClassify_AlwaysKnownCategory(t *testing.T) {
	known := make(map[Category]bool)
	for _, c := range Categories {
		known[c] = true
	}

	inputs := []string{"", "x", "anime", "Some.Show.S01E01", "hindi", "ドラマ", "k-movie", "random words"}
	types := []string{"", TypeEpisode, TypeMovie, "other"}

	for _, input := range inputs {
		for _, typ := range types {
			first := Classify(input, Guess{Type: typ})
			if !known[first] {
				t.Errorf("Classify(%q, %q) returned unknown category %s", input, typ, first)
			}
			if second := Classify(input, Guess{Type: typ}); second != first {
				t.Errorf("Classify(%q, %q) not deterministic: %s vs %s", input, typ, first, second)
			}
		}
	}
}
