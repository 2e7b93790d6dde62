package tasks

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/publisher"
)

const (
	KeyPaused          = "paused"
	KeySourceChannel   = "source_channel_id"
	KeyTargetChannel   = "target_channel_id"
	KeyStartMsgID      = "start_msg_id"
	KeyCurrentMsgID    = "current_msg_id"
	KeyIntervalSeconds = "interval_seconds"
	KeyCustomTag       = "custom_tag"
	KeyExtraTags       = "extra_tags"
	KeyChannelUsername = "channel_username"
	KeyChannelLink     = "channel_link"
	KeySeedApplied     = "seed_applied"

	extraTagSeparator = "|||"

	DefaultIntervalSeconds = 600
	MaxIntervalSeconds     = 30 * 86400
)

var ErrNoPointer = errors.New("no start message set")

// State is the persisted relay configuration and pointer.
type State struct {
	Paused          bool
	SourceChat      int64
	TargetChat      int64
	StartMsgID      int64
	CurrentMsgID    int64
	IntervalSeconds int64
	CustomTag       string
	ExtraTags       []string
	ChannelName     string
	ChannelLink     string
	Filters         []string
}

func (s State) Configured() bool {
	return s.SourceChat != 0 && s.TargetChat != 0
}

func (s State) PublishOptions() publisher.Options {
	return publisher.Options{
		TargetChat:  s.TargetChat,
		ChannelName: s.ChannelName,
		ChannelLink: s.ChannelLink,
		CustomTag:   s.CustomTag,
		ExtraTags:   s.ExtraTags,
	}
}

// Defaults fill settings that were never stored.
type Defaults struct {
	SourceChat      int64
	TargetChat      int64
	IntervalSeconds int64
	ChannelName     string
	ChannelLink     string
}

// Controls is the single writer of the relay state. Pointer moves are
// serialized so concurrent ticks and admin skips cannot lose an update.
type Controls struct {
	settings database.SettingsRepository
	filters  database.FilterRepository
	defaults Defaults
	mu       sync.Mutex
}

func NewControls(settings database.SettingsRepository, filters database.FilterRepository, defaults Defaults) *Controls {
	if defaults.IntervalSeconds <= 0 || defaults.IntervalSeconds > MaxIntervalSeconds {
		defaults.IntervalSeconds = DefaultIntervalSeconds
	}
	return &Controls{
		settings: settings,
		filters:  filters,
		defaults: defaults,
	}
}

func (c *Controls) Load() (State, error) {
	var (
		s   State
		err error
	)

	if s.Paused, err = c.settings.GetBool(KeyPaused, false); err != nil {
		return State{}, err
	}
	if s.SourceChat, err = c.settings.GetInt(KeySourceChannel, c.defaults.SourceChat); err != nil {
		return State{}, err
	}
	if s.TargetChat, err = c.settings.GetInt(KeyTargetChannel, c.defaults.TargetChat); err != nil {
		return State{}, err
	}
	if s.StartMsgID, err = c.settings.GetInt(KeyStartMsgID, 0); err != nil {
		return State{}, err
	}
	if s.CurrentMsgID, err = c.settings.GetInt(KeyCurrentMsgID, 0); err != nil {
		return State{}, err
	}
	if s.IntervalSeconds, err = c.settings.GetInt(KeyIntervalSeconds, c.defaults.IntervalSeconds); err != nil {
		return State{}, err
	}
	if s.IntervalSeconds <= 0 || s.IntervalSeconds > MaxIntervalSeconds {
		s.IntervalSeconds = c.defaults.IntervalSeconds
	}
	if s.CustomTag, err = c.settings.Get(KeyCustomTag); err != nil {
		return State{}, err
	}
	if s.ExtraTags, err = c.ExtraTags(); err != nil {
		return State{}, err
	}
	if s.ChannelName, err = c.stringOr(KeyChannelUsername, c.defaults.ChannelName); err != nil {
		return State{}, err
	}
	if s.ChannelLink, err = c.stringOr(KeyChannelLink, c.defaults.ChannelLink); err != nil {
		return State{}, err
	}
	if s.Filters, err = c.filters.ListFilters(); err != nil {
		return State{}, fmt.Errorf("failed to list filters: %w", err)
	}

	return s, nil
}

func (c *Controls) stringOr(key, def string) (string, error) {
	value, err := c.settings.Get(key)
	if err != nil {
		return "", err
	}
	if value == "" {
		return def, nil
	}
	return value, nil
}

func (c *Controls) SetPaused(paused bool) error {
	return c.settings.Set(KeyPaused, strconv.FormatBool(paused))
}

func (c *Controls) SetSource(chat int64) error {
	return c.settings.Set(KeySourceChannel, strconv.FormatInt(chat, 10))
}

func (c *Controls) SetTarget(chat int64) error {
	return c.settings.Set(KeyTargetChannel, strconv.FormatInt(chat, 10))
}

// SetStart points the relay at msgID, optionally switching the source channel.
// This is the only way the pointer moves backwards.
func (c *Controls) SetStart(chat, msgID int64) error {
	if msgID <= 0 {
		return fmt.Errorf("invalid start message id %d", msgID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if chat != 0 {
		if err := c.SetSource(chat); err != nil {
			return err
		}
	}
	id := strconv.FormatInt(msgID, 10)
	if err := c.settings.Set(KeyStartMsgID, id); err != nil {
		return err
	}
	return c.settings.Set(KeyCurrentMsgID, id)
}

// Advance moves the pointer from `from` to from+1. When the pointer was moved
// by someone else in the meantime it is left alone.
func (c *Controls) Advance(from int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, err := c.settings.GetInt(KeyCurrentMsgID, 0)
	if err != nil {
		return 0, err
	}
	if current != from {
		slog.Debug("Pointer moved during tick, not advancing", "expected", from, "current", current)
		return current, nil
	}

	next := from + 1
	if err := c.settings.Set(KeyCurrentMsgID, strconv.FormatInt(next, 10)); err != nil {
		return 0, err
	}
	return next, nil
}

// SkipNext advances the pointer by one and returns the skipped id.
func (c *Controls) SkipNext() (int64, error) {
	current, err := c.settings.GetInt(KeyCurrentMsgID, 0)
	if err != nil {
		return 0, err
	}
	if current <= 0 {
		return 0, ErrNoPointer
	}
	if _, err := c.Advance(current); err != nil {
		return 0, err
	}
	return current, nil
}

func (c *Controls) SetInterval(seconds int64) error {
	if seconds <= 0 || seconds > MaxIntervalSeconds {
		return fmt.Errorf("invalid interval %d, must be between 1 and %d seconds", seconds, MaxIntervalSeconds)
	}
	return c.settings.Set(KeyIntervalSeconds, strconv.FormatInt(seconds, 10))
}

func (c *Controls) SetCustomTag(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return c.settings.Delete(KeyCustomTag)
	}
	return c.settings.Set(KeyCustomTag, tag)
}

func (c *Controls) SetChannel(name, link string) error {
	if name != "" {
		if err := c.settings.Set(KeyChannelUsername, name); err != nil {
			return err
		}
	}
	if link != "" {
		return c.settings.Set(KeyChannelLink, link)
	}
	return nil
}

func (c *Controls) ExtraTags() ([]string, error) {
	raw, err := c.settings.Get(KeyExtraTags)
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, tag := range strings.Split(raw, extraTagSeparator) {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags, nil
}

// AddExtraTag appends tag unless it is already present.
func (c *Controls) AddExtraTag(tag string) ([]string, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, errors.New("empty tag")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	tags, err := c.ExtraTags()
	if err != nil {
		return nil, err
	}
	for _, existing := range tags {
		if existing == tag {
			return tags, nil
		}
	}

	tags = append(tags, tag)
	return tags, c.settings.Set(KeyExtraTags, strings.Join(tags, extraTagSeparator))
}

// RemoveExtraTag drops every occurrence of tag and reports whether one existed.
func (c *Controls) RemoveExtraTag(tag string) (bool, error) {
	tag = strings.TrimSpace(tag)

	c.mu.Lock()
	defer c.mu.Unlock()

	tags, err := c.ExtraTags()
	if err != nil {
		return false, err
	}

	kept := tags[:0]
	for _, existing := range tags {
		if existing != tag {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(tags) {
		return false, nil
	}
	return true, c.settings.Set(KeyExtraTags, strings.Join(kept, extraTagSeparator))
}

func (c *Controls) AddFilter(keyword string) error {
	return c.filters.AddFilter(keyword)
}

func (c *Controls) RemoveFilter(keyword string) error {
	return c.filters.RemoveFilter(keyword)
}

func (c *Controls) Filters() ([]string, error) {
	return c.filters.ListFilters()
}
