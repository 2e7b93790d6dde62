package bot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lysyi3m/media-relay/app/tasks"
)

var (
	intervalPattern  = regexp.MustCompile(`(\d+)\s*([smhd]?)`)
	privateLinkRegex = regexp.MustCompile(`t\.me/c/(\d+)/(\d+)`)
	publicLinkRegex  = regexp.MustCompile(`t\.me/([A-Za-z0-9_]+)/(\d+)`)
)

// ErrPublicLink is returned for t.me/<username>/<id> links. Channels are
// addressed by numeric id only, so a username cannot be used as is.
var ErrPublicLink = errors.New("public channel links are not supported, use a t.me/c/ link or forward the message")

var unitSeconds = map[string]int64{
	"":  1,
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ParseInterval turns "1h30m", "45s", "2d" or a bare "90" into seconds.
// Every number/unit pair found is summed. A non-positive total or one above
// tasks.MaxIntervalSeconds is rejected.
func ParseInterval(text string) (int64, bool) {
	matches := intervalPattern.FindAllStringSubmatch(strings.ToLower(strings.TrimSpace(text)), -1)
	if len(matches) == 0 {
		return 0, false
	}

	var total int64
	for _, m := range matches {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		unit := unitSeconds[m[2]]
		if n > (tasks.MaxIntervalSeconds-total)/unit {
			return 0, false
		}
		total += n * unit
	}

	if total <= 0 {
		return 0, false
	}
	return total, true
}

// FormatInterval renders seconds as "1d 2h 3m 4s", omitting zero parts.
func FormatInterval(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	d := seconds / 86400
	h := seconds % 86400 / 3600
	m := seconds % 3600 / 60
	s := seconds % 60

	var parts []string
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	if s > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", s))
	}
	return strings.Join(parts, " ")
}

// ParseTMeLink extracts chat and message ids from a private channel link
// such as https://t.me/c/1234567890/99.
func ParseTMeLink(text string) (int64, int64, error) {
	if m := privateLinkRegex.FindStringSubmatch(text); m != nil {
		internal, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid channel id in link: %w", err)
		}
		msgID, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid message id in link: %w", err)
		}
		return -1000000000000 - internal, msgID, nil
	}

	if publicLinkRegex.MatchString(text) {
		return 0, 0, ErrPublicLink
	}

	return 0, 0, fmt.Errorf("not a t.me message link: %q", text)
}

// ParseChatID accepts a numeric chat id or a private t.me link.
func ParseChatID(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, errors.New("empty chat id")
	}

	if strings.Contains(text, "t.me") {
		chat, _, err := ParseTMeLink(text)
		return chat, err
	}
	if strings.HasPrefix(text, "@") {
		return 0, ErrPublicLink
	}

	chat, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat id %q", text)
	}
	if chat == 0 {
		return 0, errors.New("chat id must not be zero")
	}
	return chat, nil
}
