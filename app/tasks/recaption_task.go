package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/media-relay/app/publisher"
)

// RecaptionTask rebuilds the caption of an already published post.
type RecaptionTask struct {
	Task
	SourceChat int64
	MsgID      int64
	controls   *Controls
	publisher  Publisher
	Result     publisher.Result
}

func NewRecaptionTask(sourceChat, msgID int64, controls *Controls, pub Publisher) *RecaptionTask {
	task := NewTask(TaskTypeRecaption, fmt.Sprintf("%d/%d", sourceChat, msgID))
	task.MaxRetries = 1

	return &RecaptionTask{
		Task:       task,
		SourceChat: sourceChat,
		MsgID:      msgID,
		controls:   controls,
		publisher:  pub,
	}
}

func (t *RecaptionTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	state, err := t.controls.Load()
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	result, err := t.publisher.Recaption(ctx, t.SourceChat, t.MsgID, state.PublishOptions())
	t.Result = result
	if errors.Is(err, publisher.ErrNotLogged) {
		t.MaxRetries = 0
		slog.Warn("Recaption requested for a message that was never posted", "key", t.Key)
		return err
	}
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"key", t.Key,
		"run_id", result.RunID,
		"duration", t.GetDuration())

	return nil
}
