package media

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var mediaExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".avi": true, ".mov": true, ".flv": true,
	".wmv": true, ".webm": true, ".m4v": true, ".ts": true, ".m2ts": true,
	".mp3": true, ".m4a": true, ".flac": true, ".gif": true,
}

var (
	// Applied to every name, in order.
	markupPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)www\.\S+`),
		regexp.MustCompile(`\[.*?\]`),
		regexp.MustCompile(`\{.*?\}`),
		regexp.MustCompile(`(?i)\b(mkv|mp4|avi|mov|flv|wmv|webm|m4v)\b`),
	}

	// Release tokens. A hit marks the name as a scene-style release.
	releasePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(HDTV|WEB-?DL|WEB-?RIP|BluRay|BRRip|DVDRip|HDRip|AMZN|NF|DSNP|HULU|HBO|PCOK|ATVP|STAN)\b`),
		regexp.MustCompile(`\biT\b`),
		regexp.MustCompile(`(?i)\bDD\+?\d\.\d\b`),
		regexp.MustCompile(`(?i)\b(x264|x265|HEVC|H\.?264|H\.?265|AVC|AAC|DDP?5\.1)\b`),
		regexp.MustCompile(`(?i)\b(10bit|HDR|SDR|DoVi|Atmos|DTS)\b`),
		regexp.MustCompile(`(?i)\b(4320p|2160p|1440p|1080[pi]|720p|576p|480p|360p|4K)\b`),
	}

	emptyParensPattern   = regexp.MustCompile(`\(\s*\)`)
	separatorRunPattern  = regexp.MustCompile(`[\-_.]{2,}`)
	trailingGroupPattern = regexp.MustCompile(`-[A-Za-z0-9]+\s*$`)
	separatorPattern     = regexp.MustCompile(`[.\-_]`)
)

// Normalize strips release noise from a filename and returns a plain,
// single-spaced title string. Normalize(Normalize(s)) == Normalize(s).
func Normalize(filename string) string {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}

	if ext := filepath.Ext(name); mediaExtensions[strings.ToLower(ext)] {
		name = strings.TrimSuffix(name, ext)
	}

	for i := 0; i < 8; i++ {
		next := cleanPass(name)
		if next == name {
			break
		}
		name = next
	}

	return name
}

func cleanPass(name string) string {
	for _, p := range markupPatterns {
		name = p.ReplaceAllString(name, " ")
	}

	release := false
	for _, p := range releasePatterns {
		if p.MatchString(name) {
			release = true
			name = p.ReplaceAllString(name, " ")
		}
	}

	name = emptyParensPattern.ReplaceAllString(name, " ")
	name = separatorRunPattern.ReplaceAllString(name, " ")
	if release {
		name = trailingGroupPattern.ReplaceAllString(name, " ")
	}

	name = separatorPattern.ReplaceAllString(name, " ")
	name = strings.Join(strings.Fields(name), " ")

	return norm.NFC.String(name)
}
