package caption

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/lysyi3m/media-relay/app/media"
	"github.com/lysyi3m/media-relay/app/metadata"
)

// MaxLength is the platform caption ceiling in characters.
const MaxLength = 1024

const (
	synopsisLimit = 320
	separator     = "━━━━━━━━━━━━━━━━━━━━━━━━"
)

type header struct {
	title string
	emoji string
	flag  string
}

var headers = map[media.Category]header{
	media.CategoryKDrama: {"🎭 <b>𝗞-𝗗𝗥𝗔𝗠𝗔 𝗘𝗗𝗜𝗧𝗜𝗢𝗡</b> 🎭", "🍿", "🇰🇷"},
	media.CategoryCDrama: {"🏮 <b>𝗖-𝗗𝗥𝗔𝗠𝗔 𝗘𝗗𝗜𝗧𝗜𝗢𝗡</b> 🏮", "🍿", "🇨🇳"},
	media.CategoryJDrama: {"🎌 <b>𝗝-𝗗𝗥𝗔𝗠𝗔 𝗘𝗗𝗜𝗧𝗜𝗢𝗡</b> 🎌", "🍿", "🇯🇵"},
	media.CategoryIndian: {"🪷 <b>𝗜𝗡𝗗𝗜𝗔𝗡 𝗖𝗜𝗡𝗘𝗠𝗔</b> 🪷", "🎥", "🇮🇳"},
	media.CategoryKMovie: {"🎬 <b>𝗞𝗢𝗥𝗘𝗔𝗡 𝗠𝗢𝗩𝗜𝗘</b> 🎬", "🎥", "🇰🇷"},
	media.CategoryJMovie: {"👹 <b>𝗝𝗔𝗣𝗔𝗡𝗘𝗦𝗘 𝗠𝗢𝗩𝗜𝗘</b> 👹", "🎥", "🇯🇵"},
	media.CategoryAnime:  {"✨ <b>𝗔𝗡𝗜𝗠𝗘 𝗘𝗗𝗜𝗧𝗜𝗢𝗡</b> ✨", "⛩️", "🎌"},
	media.CategorySeries: {"📺 <b>𝗦𝗘𝗥𝗜𝗘𝗦 𝗘𝗗𝗜𝗧𝗜𝗢𝗡</b> 📺", "🍿", "⭐"},
	media.CategoryMovie:  {"🎬 <b>𝗠𝗢𝗩𝗜𝗘 𝗘𝗗𝗜𝗧𝗜𝗢𝗡</b> 🎬", "🎥", "⭐"},
}

// Input carries everything a caption is rendered from.
type Input struct {
	Category    media.Category
	Record      metadata.Record
	Guess       media.Guess
	Size        int64
	ChannelName string
	ChannelLink string
	CustomTag   string
	ExtraTags   []string
}

// Build renders the HTML caption. It is a pure function of its input.
func Build(in Input) string {
	h, ok := headers[in.Category]
	if !ok {
		h = headers[media.CategoryMovie]
	}

	rec := in.Record
	if rec.Source == "" {
		rec = metadata.NewRecord(firstSet(rec.Title, in.Guess.Title))
	}

	year := rec.Year
	if year == metadata.NotAvailable && in.Guess.Year > 0 {
		year = strconv.Itoa(in.Guess.Year)
	}

	lines := []string{
		h.title,
		"",
		"<blockquote>",
		fmt.Sprintf("<b>%s  %s</b>  %s", h.emoji, esc(rec.Title), h.flag),
		"",
	}

	if ep := episodeLabel(in.Guess); ep != "" {
		lines = append(lines, field("🎞", "Episode  :", ep))
	}

	lines = append(lines,
		field("📅", "Year     :", year),
		field("⭐", "Rating   :", rec.Rating+" / 10"),
		field("🎭", "Genre    :", rec.Genres),
		field("🌍", "Country  :", rec.Country),
		field("🗣", "Language :", Languages(in.Guess.Languages)),
		field("📽", "Quality  :", Quality(in.Guess.Resolution)),
		field("💾", "Size     :", Size(in.Size)),
		field("⏱", "Runtime  :", rec.Runtime),
	)

	if rec.Director != "" && rec.Director != metadata.NotAvailable {
		lines = append(lines, field("🎬", "Director :", rec.Director))
	}
	if rec.Cast != "" && rec.Cast != metadata.NotAvailable {
		lines = append(lines, field("🌟", "Cast     :", rec.Cast))
	}

	lines = append(lines,
		fmt.Sprintf("╰ 🗂  <b>Source   :</b>  <code>%s</code>", esc(rec.Source)),
		"",
		"📖  <b>Synopsis:</b>",
		fmt.Sprintf("<i>%s</i>", esc(synopsis(rec.Overview))),
		"</blockquote>",
		"",
		separator,
	)

	if tag := strings.TrimSpace(in.CustomTag); tag != "" {
		lines = append(lines, fmt.Sprintf("<b>%s</b>", esc(tag)))
	}
	for _, tag := range in.ExtraTags {
		if tag = strings.TrimSpace(tag); tag != "" {
			lines = append(lines, fmt.Sprintf("<b>%s</b>", esc(tag)))
		}
	}

	lines = append(lines,
		fmt.Sprintf("<b>%s</b>", esc(in.ChannelName)),
		fmt.Sprintf(`🔔  <a href="%s">Join for more!</a>`, esc(in.ChannelLink)),
	)

	return strings.Join(lines, "\n")
}

// Truncate cuts s to at most limit characters.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func field(emoji, label, value string) string {
	return fmt.Sprintf("├ %s  <b>%s</b>  <code>%s</code>", emoji, label, esc(value))
}

func episodeLabel(g media.Guess) string {
	switch {
	case g.Season > 0 && g.Episode > 0:
		return fmt.Sprintf("S%02dE%02d", g.Season, g.Episode)
	case g.Episode > 0:
		return fmt.Sprintf("EP %02d", g.Episode)
	}
	return ""
}

func synopsis(overview string) string {
	overview = strings.TrimSpace(overview)
	if overview == "" {
		return metadata.NoSynopsis
	}
	if utf8.RuneCountInString(overview) > synopsisLimit {
		return string([]rune(overview)[:synopsisLimit]) + "…"
	}
	return overview
}

func firstSet(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func esc(s string) string {
	return html.EscapeString(s)
}
