package tasks

import (
	"strings"

	"github.com/lysyi3m/media-relay/app/platform"
)

// Filterer blocks candidate messages whose text contains a configured keyword.
type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run reports whether msg is blocked and by which keyword. Matching is a plain
// lowercase substring test over caption, text and filename.
func (f *Filterer) Run(msg *platform.Message, keywords []string) (bool, string) {
	if len(keywords) == 0 || msg == nil {
		return false, ""
	}

	value := msg.SearchText()
	for _, keyword := range keywords {
		if f.matchesFilter(value, keyword) {
			return true, keyword
		}
	}

	return false, ""
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}
