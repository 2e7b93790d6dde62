package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/platform"
	"github.com/lysyi3m/media-relay/app/publisher"
)

// PublishLiveTask publishes a message that just arrived in the source channel.
type PublishLiveTask struct {
	Task
	Message   *platform.Message
	controls  *Controls
	posts     database.PostRepository
	publisher Publisher
	Result    publisher.Result
}

func NewPublishLiveTask(msg *platform.Message, controls *Controls, posts database.PostRepository, pub Publisher) *PublishLiveTask {
	return &PublishLiveTask{
		Task:      NewTask(TaskTypePublishLive, fmt.Sprintf("%d/%d", msg.ChatID, msg.ID)),
		Message:   msg,
		controls:  controls,
		posts:     posts,
		publisher: pub,
	}
}

func (t *PublishLiveTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	state, err := t.controls.Load()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	if state.Paused {
		slog.Debug("Relay paused, ignoring live message", "key", t.Key)
		return nil
	}
	if state.SourceChat == 0 || t.Message.ChatID != state.SourceChat {
		slog.Debug("Live message not from the source channel", "chat", t.Message.ChatID, "source", state.SourceChat)
		return nil
	}
	if state.TargetChat == 0 {
		slog.Warn("Target channel not set, ignoring live message", "key", t.Key)
		return nil
	}

	posted, err := t.posts.WasPosted(t.Message.ChatID, t.Message.ID)
	if err != nil {
		return fmt.Errorf("failed to check post log: %w", err)
	}
	if posted {
		slog.Debug("Live message already posted", "key", t.Key)
		return nil
	}

	result, err := t.publisher.PublishMessage(ctx, t.Message, state.PublishOptions())
	t.Result = result
	if err != nil {
		if result.Sent() {
			// the media is already in the target; a retry would post it twice
			t.MaxRetries = 0
			slog.Error("Live message sent but not recorded, not retrying", "key", t.Key, "run_id", result.RunID, "target_msg_id", result.TargetMsgID)
		}
		return err
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"key", t.Key,
		"status", string(result.Status),
		"run_id", result.RunID,
		"duration", t.GetDuration())

	return nil
}
