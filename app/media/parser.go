package media

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"
)

const (
	TypeEpisode = "episode"
	TypeMovie   = "movie"
)

// fansub releases number episodes as "Title - 05" or "Title - 05v2"
var dashEpisodeRegex = regexp.MustCompile(`\s-\s(\d{1,4})(?:v\d+)?(?:[\s.\[(]|$)`)

// Guess is the structured reading of a filename.
type Guess struct {
	Title      string
	Year       int
	Season     int
	Episode    int
	Resolution string
	Languages  []string
	Type       string
}

func (g Guess) HasEpisode() bool {
	return g.Episode > 0
}

// Parse reads title, year, season, episode and type from the cleaned name.
// Resolution and language tags are dropped by Normalize, so they are read
// from the raw filename instead.
func Parse(raw, cleaned string) Guess {
	clean := rls.ParseString(cleaned)
	full := rls.ParseString(strings.TrimSpace(raw))

	guess := Guess{
		Title:      strings.TrimSpace(clean.Title),
		Year:       clean.Year,
		Season:     clean.Series,
		Episode:    clean.Episode,
		Resolution: full.Resolution,
		Languages:  full.Language,
		Type:       guessType(clean),
	}

	if guess.Year == 0 {
		guess.Year = full.Year
	}
	if guess.Episode == 0 && full.Episode > 0 {
		guess.Season = full.Series
		guess.Episode = full.Episode
	}
	if guess.Episode == 0 {
		guess.Episode = dashEpisode(raw)
	}
	if guess.Type == "" {
		guess.Type = guessType(full)
	}
	if guess.Type == "" && guess.Episode > 0 {
		guess.Type = TypeEpisode
	}

	if guess.Title == "" {
		guess.Title = fallbackTitle(raw, cleaned)
	}
	guess.Title = trimEpisodeNumber(guess.Title, guess.Episode)

	return guess
}

func guessType(release rls.Release) string {
	switch release.Type {
	case rls.Episode, rls.Series:
		return TypeEpisode
	case rls.Movie:
		return TypeMovie
	}
	if release.Episode > 0 {
		return TypeEpisode
	}
	return ""
}

func fallbackTitle(raw, cleaned string) string {
	if cleaned != "" {
		return cleaned
	}
	base := filepath.Base(raw)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func dashEpisode(raw string) int {
	m := dashEpisodeRegex.FindStringSubmatch(filepath.Base(raw))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || (n >= 1900 && n <= 2099) {
		return 0
	}
	return n
}

// trimEpisodeNumber drops a trailing bare episode number left in the title,
// as in "Frieren 12" for episode 12.
func trimEpisodeNumber(title string, episode int) string {
	if episode <= 0 {
		return title
	}
	fields := strings.Fields(title)
	if len(fields) < 2 {
		return title
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil || n != episode {
		return title
	}
	return strings.Join(fields[:len(fields)-1], " ")
}
