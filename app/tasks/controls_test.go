package tasks

import (
	"errors"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	f := newFixture(t)

	state, err := f.controls.Load()
	if err != nil {
		t.Fatal(err)
	}

	if state.SourceChat != sourceChat || state.TargetChat != targetChat {
		t.Errorf("Expected default channels, got %d/%d", state.SourceChat, state.TargetChat)
	}
	if state.IntervalSeconds != DefaultIntervalSeconds {
		t.Errorf("Expected interval %d, got %d", DefaultIntervalSeconds, state.IntervalSeconds)
	}
	if state.Paused {
		t.Error("Expected not paused")
	}
	if state.ChannelName != "@Relay" {
		t.Errorf("Expected channel name '@Relay', got '%s'", state.ChannelName)
	}

	_ = f.controls.SetSource(-1009)
	_ = f.controls.SetChannel("@Other", "")
	state, _ = f.controls.Load()
	if state.SourceChat != -1009 {
		t.Errorf("Expected stored source -1009, got %d", state.SourceChat)
	}
	if state.ChannelName != "@Other" || state.ChannelLink != "https://t.me/Relay" {
		t.Errorf("Expected stored name with default link, got %s %s", state.ChannelName, state.ChannelLink)
	}
}

func TestSetStartAndSkip(t *testing.T) {
	f := newFixture(t)

	if _, err := f.controls.SkipNext(); !errors.Is(err, ErrNoPointer) {
		t.Errorf("Expected ErrNoPointer, got %v", err)
	}

	if err := f.controls.SetStart(-1007, 50); err != nil {
		t.Fatal(err)
	}
	state, _ := f.controls.Load()
	if state.SourceChat != -1007 || state.StartMsgID != 50 || state.CurrentMsgID != 50 {
		t.Errorf("Expected source -1007 start 50 current 50, got %d %d %d", state.SourceChat, state.StartMsgID, state.CurrentMsgID)
	}

	skipped, err := f.controls.SkipNext()
	if err != nil {
		t.Fatal(err)
	}
	if skipped != 50 || f.pointer(t) != 51 {
		t.Errorf("Expected skip of 50 to 51, got %d -> %d", skipped, f.pointer(t))
	}

	if err := f.controls.SetStart(0, 0); err == nil {
		t.Error("Expected error for message id 0")
	}
}

func TestAdvanceLeavesMovedPointer(t *testing.T) {
	f := newFixture(t)
	_ = f.controls.SetStart(0, 10)
	_ = f.controls.SetStart(0, 30)

	next, err := f.controls.Advance(10)
	if err != nil {
		t.Fatal(err)
	}
	if next != 30 || f.pointer(t) != 30 {
		t.Errorf("Expected pointer left at 30, got %d", f.pointer(t))
	}
}

func TestExtraTags(t *testing.T) {
	f := newFixture(t)

	_, _ = f.controls.AddExtraTag("first")
	_, _ = f.controls.AddExtraTag("second")
	tags, err := f.controls.AddExtraTag("first")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 || tags[0] != "first" || tags[1] != "second" {
		t.Errorf("Expected [first second], got %v", tags)
	}

	removed, _ := f.controls.RemoveExtraTag("first")
	if !removed {
		t.Error("Expected tag removed")
	}
	removed, _ = f.controls.RemoveExtraTag("missing")
	if removed {
		t.Error("Expected nothing removed for unknown tag")
	}

	state, _ := f.controls.Load()
	if len(state.ExtraTags) != 1 || state.ExtraTags[0] != "second" {
		t.Errorf("Expected [second], got %v", state.ExtraTags)
	}

	if _, err := f.controls.AddExtraTag("  "); err == nil {
		t.Error("Expected error for empty tag")
	}
}

func TestCustomTagAndInterval(t *testing.T) {
	f := newFixture(t)

	_ = f.controls.SetCustomTag("⚡ Powered by @Relay")
	_ = f.controls.SetInterval(90)
	state, _ := f.controls.Load()
	if state.CustomTag != "⚡ Powered by @Relay" {
		t.Errorf("Expected custom tag, got '%s'", state.CustomTag)
	}
	if state.IntervalSeconds != 90 {
		t.Errorf("Expected interval 90, got %d", state.IntervalSeconds)
	}

	opts := state.PublishOptions()
	if opts.TargetChat != targetChat || opts.CustomTag != state.CustomTag {
		t.Errorf("Expected options from state, got %+v", opts)
	}

	_ = f.controls.SetCustomTag("")
	state, _ = f.controls.Load()
	if state.CustomTag != "" {
		t.Errorf("Expected cleared tag, got '%s'", state.CustomTag)
	}

	if err := f.controls.SetInterval(0); err == nil {
		t.Error("Expected error for zero interval")
	}
}

func TestIntervalUpperBound(t *testing.T) {
	f := newFixture(t)

	if err := f.controls.SetInterval(150000 * 86400); err == nil {
		t.Error("Expected error for an interval above the maximum")
	}
	if err := f.controls.SetInterval(MaxIntervalSeconds); err != nil {
		t.Errorf("Expected the maximum interval accepted, got %v", err)
	}

	// a value written before the bound existed falls back to the default
	_ = f.store.Set(KeyIntervalSeconds, "12960000000")
	state, err := f.controls.Load()
	if err != nil {
		t.Fatal(err)
	}
	if state.IntervalSeconds != DefaultIntervalSeconds {
		t.Errorf("Expected default interval %d, got %d", DefaultIntervalSeconds, state.IntervalSeconds)
	}
}
