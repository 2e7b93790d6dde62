package tasks

import (
	"context"
	"time"

	"github.com/lysyi3m/media-relay/app/platform"
	"github.com/lysyi3m/media-relay/app/publisher"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the bot and the admin API to drive the relay.
// It owns the periodic pointer tick, a queue of one-off publish tasks and the
// worker pool that drains it.
// Example usage:
//
//	scheduler := NewScheduler(poster, controls, 10*time.Second, 2)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewPublishLiveTask(...))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	Reschedule(interval time.Duration) error
	TriggerNow(ctx context.Context) (TickResult, error)
	NextRun() time.Time
}

// Publisher is what the tasks need from the publishing pipeline.
type Publisher interface {
	Inspect(ctx context.Context, sourceChat, msgID, chat int64) (*publisher.Inspection, error)
	PublishInspected(ctx context.Context, insp *publisher.Inspection, opts publisher.Options) (publisher.Result, error)
	CopyPlain(ctx context.Context, sourceChat, msgID int64, opts publisher.Options) (publisher.Result, error)
	PublishMessage(ctx context.Context, msg *platform.Message, opts publisher.Options) (publisher.Result, error)
	Recaption(ctx context.Context, sourceChat, msgID int64, opts publisher.Options) (publisher.Result, error)
}
