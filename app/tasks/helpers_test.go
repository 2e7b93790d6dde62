package tasks

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/media"
	"github.com/lysyi3m/media-relay/app/metadata"
	"github.com/lysyi3m/media-relay/app/platform"
	"github.com/lysyi3m/media-relay/app/publisher"
)

const (
	sourceChat = int64(-1001)
	targetChat = int64(-2002)
)

var errTransport = errors.New("transport failure")

// MockClient serves source messages from memory and records sends
type MockClient struct {
	mu         sync.Mutex
	source     map[int64]*platform.Message
	sendErr    error
	copyErr    error
	forwardErr error
	nextID     int64
	sends      []int64
	forwards   int
	deletes    int
	delay      time.Duration
}

func NewMockClient() *MockClient {
	return &MockClient{source: make(map[int64]*platform.Message), nextID: 5000}
}

func (m *MockClient) Forward(ctx context.Context, toChat, fromChat, msgID int64) (*platform.Message, error) {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.forwards++
	if m.forwardErr != nil {
		return nil, m.forwardErr
	}
	src, ok := m.source[msgID]
	if !ok {
		return nil, errTransport
	}
	fwd := *src
	m.nextID++
	fwd.ChatID = toChat
	fwd.ID = m.nextID
	return &fwd, nil
}

func (m *MockClient) Copy(ctx context.Context, toChat, fromChat, msgID int64, caption string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.copyErr != nil {
		return 0, m.copyErr
	}
	m.nextID++
	m.sends = append(m.sends, msgID)
	return m.nextID, nil
}

func (m *MockClient) SendMedia(ctx context.Context, toChat int64, file platform.File, caption string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.nextID++
	m.sends = append(m.sends, m.nextID)
	return m.nextID, nil
}

func (m *MockClient) Delete(ctx context.Context, chat, msgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	return nil
}

func (m *MockClient) EditCaption(ctx context.Context, chat, msgID int64, caption string) error {
	return nil
}

func (m *MockClient) sendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sends)
}

// MockFailingPosts delegates to a real store but fails every LogPost
type MockFailingPosts struct {
	database.PostRepository
	err error
}

func (m *MockFailingPosts) LogPost(entry database.PostLogEntry) (bool, error) {
	return false, m.err
}

type stubResolver struct{}

func (stubResolver) Resolve(ctx context.Context, title string, year int, category media.Category) metadata.Record {
	return metadata.NewRecord(title)
}

func mediaMessage(id int64, name, caption string) *platform.Message {
	return &platform.Message{
		ID:      id,
		ChatID:  sourceChat,
		Caption: caption,
		Media:   &platform.File{ID: "file", UniqueID: "u", Name: name, Size: 1 << 20, Kind: platform.MediaVideo},
	}
}

type fixture struct {
	store    *database.Store
	controls *Controls
	client   *MockClient
	pub      *publisher.Publisher
	poster   *Poster
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatal(err)
	}

	store := database.NewStore(db)
	controls := NewControls(store, store, Defaults{
		SourceChat:  sourceChat,
		TargetChat:  targetChat,
		ChannelName: "@Relay",
		ChannelLink: "https://t.me/Relay",
	})
	client := NewMockClient()
	pub := publisher.New(client, stubResolver{}, store)

	return &fixture{
		store:    store,
		controls: controls,
		client:   client,
		pub:      pub,
		poster:   NewPoster(controls, store, pub),
	}
}

func (f *fixture) pointer(t *testing.T) int64 {
	t.Helper()
	ptr, err := f.store.GetInt(KeyCurrentMsgID, 0)
	if err != nil {
		t.Fatal(err)
	}
	return ptr
}
