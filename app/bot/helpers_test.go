package bot

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/tasks"
)

// MockScheduler records what the commands ask of the scheduler.
type MockScheduler struct {
	mu            sync.Mutex
	enqueued      []tasks.TaskInterface
	reschedules   []time.Duration
	rescheduleErr error
	next          time.Time
	result        tasks.TickResult
	triggerErr    error
	triggers      int
}

func (m *MockScheduler) Start() {}
func (m *MockScheduler) Stop()  {}

func (m *MockScheduler) EnqueueTask(task tasks.TaskInterface) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, task)
	return nil
}

func (m *MockScheduler) Reschedule(interval time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rescheduleErr != nil {
		return m.rescheduleErr
	}
	m.reschedules = append(m.reschedules, interval)
	return nil
}

func (m *MockScheduler) TriggerNow(ctx context.Context) (tasks.TickResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers++
	return m.result, m.triggerErr
}

func (m *MockScheduler) NextRun() time.Time {
	return m.next
}

type fixture struct {
	store     *database.Store
	controls  *tasks.Controls
	scheduler *MockScheduler
	commands  *Commands
}

func newFixture(t *testing.T, adminIDs ...int64) *fixture {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatal(err)
	}

	store := database.NewStore(db)
	controls := tasks.NewControls(store, store, tasks.Defaults{SourceChat: -1001, TargetChat: -2002})
	scheduler := &MockScheduler{}
	commands := NewCommands(controls, store, store, NewGuard(adminIDs, store), scheduler, nil)
	commands.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	return &fixture{store: store, controls: controls, scheduler: scheduler, commands: commands}
}
