package tasks

import (
	"context"
	"errors"
	"log/slog"
)

// PostNextTask runs one pointer tick. It is never retried: a failed publish has
// already advanced the pointer.
type PostNextTask struct {
	Task
	poster *Poster
	Result TickResult
}

func NewPostNextTask(poster *Poster) *PostNextTask {
	task := NewTask(TaskTypePostNext, "pointer")
	task.MaxRetries = 0

	return &PostNextTask{
		Task:   task,
		poster: poster,
	}
}

func (t *PostNextTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.poster.Tick(ctx)
	t.Result = result
	if errors.Is(err, ErrBusy) {
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"outcome", string(result.Outcome),
		"msg_id", result.MsgID,
		"next_msg_id", result.NextMsgID,
		"duration", t.GetDuration())

	return nil
}
