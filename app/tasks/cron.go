package tasks

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// cronLogger routes cron's own logging through slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}

// delayedSchedule fires once at first and then every interval after that.
type delayedSchedule struct {
	first time.Time
	every cron.ConstantDelaySchedule
}

func newDelayedSchedule(now time.Time, delay, interval time.Duration) delayedSchedule {
	return delayedSchedule{
		first: now.Add(delay),
		every: cron.Every(interval),
	}
}

func (d delayedSchedule) Next(t time.Time) time.Time {
	if t.Before(d.first) {
		return d.first
	}
	return d.every.Next(t)
}
