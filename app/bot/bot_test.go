package bot

import (
	"testing"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

func TestIsSourceMedia(t *testing.T) {
	tests := []struct {
		name     string
		msg      *gotgbot.Message
		expected bool
	}{
		{"channel video", &gotgbot.Message{Chat: gotgbot.Chat{Type: "channel"}, Video: &gotgbot.Video{}}, true},
		{"supergroup document", &gotgbot.Message{Chat: gotgbot.Chat{Type: "supergroup"}, Document: &gotgbot.Document{}}, true},
		{"channel text", &gotgbot.Message{Chat: gotgbot.Chat{Type: "channel"}, Text: "hello"}, false},
		{"private video", &gotgbot.Message{Chat: gotgbot.Chat{Type: "private"}, Video: &gotgbot.Video{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSourceMedia(tt.msg); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestForwardedFrom(t *testing.T) {
	channelForward := &gotgbot.Message{
		ForwardOrigin: gotgbot.MessageOriginChannel{Chat: gotgbot.Chat{Id: -100999, Type: "channel"}, MessageId: 12},
	}

	fwd := forwardedFrom(channelForward)
	if fwd.Chat != -100999 || fwd.MsgID != 12 {
		t.Errorf("Expected -100999/12, got %d/%d", fwd.Chat, fwd.MsgID)
	}

	reply := &gotgbot.Message{Text: "/setstart", ReplyToMessage: channelForward}
	fwd = forwardedFrom(reply)
	if fwd.Chat != -100999 || fwd.MsgID != 12 {
		t.Errorf("Expected replied forward to be used, got %d/%d", fwd.Chat, fwd.MsgID)
	}

	if fwd := forwardedFrom(&gotgbot.Message{Text: "/setstart"}); fwd.Chat != 0 || fwd.MsgID != 0 {
		t.Errorf("Expected empty origin, got %+v", fwd)
	}
}

func TestCommandArgs(t *testing.T) {
	if got := commandArgs([]string{"/settag", "⚡", "Powered", "by", "@Relay"}); got != "⚡ Powered by @Relay" {
		t.Errorf("Expected joined args, got '%s'", got)
	}
	if got := commandArgs([]string{"/pause"}); got != "" {
		t.Errorf("Expected no args, got '%s'", got)
	}
}

func TestCallbacksMapToCommands(t *testing.T) {
	b := &Bot{commands: newFixture(t).commands}

	names := make(map[string]bool)
	for _, cmd := range b.commandTable() {
		names[cmd.name] = true
	}

	for data, name := range callbackCommands {
		if !names[name] {
			t.Errorf("Callback %s points at unknown command %s", data, name)
		}
	}

	buttons := 0
	for _, row := range mainKeyboard().InlineKeyboard {
		for _, button := range row {
			buttons++
			if _, ok := callbackCommands[button.CallbackData]; !ok {
				t.Errorf("Button %s has unmapped callback %s", button.Text, button.CallbackData)
			}
		}
	}
	if buttons != len(callbackCommands) {
		t.Errorf("Expected %d buttons, got %d", len(callbackCommands), buttons)
	}
}
