package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	poster        *Poster
	controls      *Controls
	cron          *cron.Cron
	entryID       cron.EntryID
	firstRunDelay time.Duration
	workerCount   int
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
	mu            sync.Mutex
}

func NewScheduler(poster *Poster, controls *Controls, firstRunDelay time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if workerCount <= 0 {
		workerCount = 1
	}

	logger := cronLogger{}

	return &Scheduler{
		poster:        poster,
		controls:      controls,
		cron:          cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		firstRunDelay: firstRunDelay,
		workerCount:   workerCount,
		ctx:           ctx,
		cancel:        cancel,
		taskQueue:     make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	interval := time.Duration(DefaultIntervalSeconds) * time.Second
	if state, err := s.controls.Load(); err != nil {
		slog.Warn("Failed to load interval, using default", "error", err)
	} else {
		interval = time.Duration(state.IntervalSeconds) * time.Second
	}

	s.mu.Lock()
	s.entryID = s.cron.Schedule(newDelayedSchedule(time.Now(), s.firstRunDelay, interval), cron.FuncJob(s.tick))
	s.mu.Unlock()

	s.cron.Start()

	slog.Info("Scheduler started", "interval", interval.String(), "first_run_delay", s.firstRunDelay.String(), "workers", s.workerCount)
}

func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// Reschedule replaces the timer. The next tick fires one full interval from now.
func (s *Scheduler) Reschedule(interval time.Duration) error {
	if interval < time.Second || interval > MaxIntervalSeconds*time.Second {
		return fmt.Errorf("interval must be between 1s and %s, got %s", MaxIntervalSeconds*time.Second, interval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cron.Remove(s.entryID)
	s.entryID = s.cron.Schedule(newDelayedSchedule(time.Now(), interval, interval), cron.FuncJob(s.tick))

	slog.Info("Scheduler rescheduled", "interval", interval.String())
	return nil
}

// TriggerNow runs a tick immediately without touching the timer.
func (s *Scheduler) TriggerNow(ctx context.Context) (TickResult, error) {
	start := time.Now()

	result, err := s.poster.Tick(ctx)
	slog.Info("Forced tick", "outcome", string(result.Outcome), "msg_id", result.MsgID, "duration", time.Since(start))
	return result, err
}

func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) tick() {
	s.executeTask(-1, NewPostNextTask(s.poster))
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "key", task.GetKey(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "key", task.GetKey(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				select {
				case <-time.After(retryDelay):
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				}
				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				}
			}()
		} else if task.GetMaxRetries() > 0 {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
