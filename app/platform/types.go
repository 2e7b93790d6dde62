package platform

import (
	"fmt"
	"regexp"
	"strings"
)

type MediaKind string

const (
	MediaVideo     MediaKind = "video"
	MediaDocument  MediaKind = "document"
	MediaAudio     MediaKind = "audio"
	MediaAnimation MediaKind = "animation"
)

// File is an opaque handle to media already stored on the platform.
type File struct {
	ID       string
	UniqueID string
	Name     string
	Size     int64
	MimeType string
	Kind     MediaKind
}

type Message struct {
	ID      int64
	ChatID  int64
	Caption string
	Text    string
	Media   *File
}

var unsafeNameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

var kindDefaults = map[MediaKind]struct {
	prefix    string
	extension string
}{
	MediaVideo:     {"video_", ".mp4"},
	MediaDocument:  {"doc_", ".mkv"},
	MediaAudio:     {"audio_", ".mp3"},
	MediaAnimation: {"anim_", ".gif"},
}

// Filename returns the display name of the attached media. Generic platform
// names are replaced by the first caption line, or a name built from the
// unique file id.
func (m *Message) Filename() string {
	if m == nil || m.Media == nil {
		return ""
	}

	d := kindDefaults[m.Media.Kind]
	name := m.Media.Name
	generic := name == "" || strings.HasPrefix(name, d.prefix)
	if m.Media.Kind == MediaVideo || m.Media.Kind == MediaDocument {
		generic = generic || strings.Contains(strings.ToLower(name), "unknown")
	}
	if !generic {
		return name
	}

	if hint := captionHint(m.Caption); hint != "" {
		return hint + d.extension
	}
	if m.Media.Kind == MediaDocument {
		return d.prefix + m.Media.UniqueID
	}
	return fmt.Sprintf("%s%s%s", d.prefix, m.Media.UniqueID, d.extension)
}

// SearchText is the lowercased caption, text and filename used for keyword filtering.
func (m *Message) SearchText() string {
	if m == nil {
		return ""
	}
	return strings.ToLower(strings.Join([]string{m.Caption, m.Text, m.Filename()}, " "))
}

func captionHint(caption string) string {
	line, _, _ := strings.Cut(caption, "\n")
	line = unsafeNameChars.ReplaceAllString(strings.TrimSpace(line), "")
	if r := []rune(line); len(r) > 60 {
		line = string(r[:60])
	}
	return line
}
