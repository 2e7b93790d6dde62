package caption

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const defaultLanguage = "🇬🇧 English"

var languageLabels = map[string]string{
	"en": "🇬🇧 English", "english": "🇬🇧 English",
	"hi": "🇮🇳 Hindi", "hindi": "🇮🇳 Hindi",
	"ta": "🇮🇳 Tamil", "tamil": "🇮🇳 Tamil",
	"te": "🇮🇳 Telugu", "telugu": "🇮🇳 Telugu",
	"ml": "🇮🇳 Malayalam", "malayalam": "🇮🇳 Malayalam",
	"kn": "🇮🇳 Kannada", "kannada": "🇮🇳 Kannada",
	"ko": "🇰🇷 Korean", "korean": "🇰🇷 Korean",
	"ja": "🇯🇵 Japanese", "japanese": "🇯🇵 Japanese",
	"zh": "🇨🇳 Chinese", "chinese": "🇨🇳 Chinese",
	"fr": "🇫🇷 French", "french": "🇫🇷 French",
	"es": "🇪🇸 Spanish", "spanish": "🇪🇸 Spanish",
	"de": "🇩🇪 German", "german": "🇩🇪 German",
	"ar": "🇸🇦 Arabic", "arabic": "🇸🇦 Arabic",
	"pt": "🇧🇷 Portuguese", "portuguese": "🇧🇷 Portuguese",
	"ru": "🇷🇺 Russian", "russian": "🇷🇺 Russian",
	"it": "🇮🇹 Italian", "italian": "🇮🇹 Italian",
	"tr": "🇹🇷 Turkish", "turkish": "🇹🇷 Turkish",
	"th": "🇹🇭 Thai", "thai": "🇹🇭 Thai",
	"multi": "🌐 Multi",
}

var qualityLabels = []struct {
	token string
	label string
}{
	{"4320p", "7680×4320 (8K)"},
	{"2160p", "3840×2160 (4K UHD)"},
	{"1440p", "2560×1440 (2K)"},
	{"1080p", "1920×1080 (Full HD)"},
	{"1080i", "1920×1080 (Full HD)"},
	{"720p", "1280×720 (HD)"},
	{"576p", "720×576 (SD)"},
	{"480p", "720×480 (SD)"},
	{"360p", "480×360 (Low)"},
}

var titleCaser = cases.Title(language.English)

// Languages renders release language tokens as flag labels, deduplicated in
// first-seen order.
func Languages(tokens []string) string {
	seen := make(map[string]bool, len(tokens))
	labels := make([]string, 0, len(tokens))

	for _, token := range tokens {
		label := languageLabel(token)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}

	if len(labels) == 0 {
		return defaultLanguage
	}
	return strings.Join(labels, ", ")
}

func languageLabel(token string) string {
	key := strings.ToLower(strings.TrimSpace(token))
	if key == "" {
		return ""
	}
	if label, ok := languageLabels[key]; ok {
		return label
	}

	if len(key) <= 3 {
		if tag, err := language.Parse(key); err == nil {
			if name := display.English.Languages().Name(tag); name != "" {
				return name
			}
		}
	}
	return titleCaser.String(key)
}

// Quality maps a resolution token to a display label.
func Quality(resolution string) string {
	raw := strings.ToLower(strings.TrimSpace(resolution))
	if raw == "" {
		return "N/A"
	}
	for _, q := range qualityLabels {
		if strings.Contains(raw, q.token) {
			return q.label
		}
	}
	return strings.ToUpper(raw)
}

// Size renders a byte count with two decimals, "N/A" when unknown.
func Size(bytes int64) string {
	if bytes <= 0 {
		return "N/A"
	}

	value := float64(bytes)
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if value < 1024 {
			return fmt.Sprintf("%.2f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.2f PB", value)
}
