package publisher

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/media"
	"github.com/lysyi3m/media-relay/app/metadata"
	"github.com/lysyi3m/media-relay/app/platform"
)

var errTransport = errors.New("transport failure")

type sentMedia struct {
	chat    int64
	file    platform.File
	caption string
}

type copied struct {
	toChat, fromChat, msgID int64
	caption                 string
}

// MockClient records every platform call
type MockClient struct {
	mu sync.Mutex

	source map[int64]*platform.Message

	forwardErr error
	sendErr    error
	copyErr    error
	deleteErr  error
	editErr    error

	nextID   int64
	forwards int
	sent     []sentMedia
	copies   []copied
	deleted  []int64
	edits    map[int64]string
}

var _ platform.Client = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{source: make(map[int64]*platform.Message), nextID: 1000, edits: make(map[int64]string)}
}

func (m *MockClient) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *MockClient) Forward(ctx context.Context, toChat, fromChat, msgID int64) (*platform.Message, error) {
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
	fwd.ChatID = toChat
	fwd.ID = m.id()
	return &fwd, nil
}

func (m *MockClient) Copy(ctx context.Context, toChat, fromChat, msgID int64, caption string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.copyErr != nil {
		return 0, m.copyErr
	}
	m.copies = append(m.copies, copied{toChat: toChat, fromChat: fromChat, msgID: msgID, caption: caption})
	return m.id(), nil
}

func (m *MockClient) SendMedia(ctx context.Context, toChat int64, file platform.File, caption string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.sent = append(m.sent, sentMedia{chat: toChat, file: file, caption: caption})
	return m.id(), nil
}

func (m *MockClient) Delete(ctx context.Context, chat, msgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleted = append(m.deleted, msgID)
	return m.deleteErr
}

func (m *MockClient) EditCaption(ctx context.Context, chat, msgID int64, caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.editErr != nil {
		return m.editErr
	}
	m.edits[msgID] = caption
	return nil
}

// MockPostRepository keeps the post log in memory
type MockPostRepository struct {
	mu      sync.Mutex
	entries map[[2]int64]database.PostLogEntry
	err     error
}

var _ database.PostRepository = (*MockPostRepository)(nil)

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{entries: make(map[[2]int64]database.PostLogEntry)}
}

func (m *MockPostRepository) LogPost(entry database.PostLogEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return false, m.err
	}
	key := [2]int64{entry.SourceChatID, entry.SourceMsgID}
	if _, ok := m.entries[key]; ok {
		return false, nil
	}
	m.entries[key] = entry
	return true, nil
}

func (m *MockPostRepository) TotalPosted() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

func (m *MockPostRepository) LastPostTime() (*time.Time, error) {
	return nil, nil
}

func (m *MockPostRepository) WasPosted(sourceChatID, sourceMsgID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[[2]int64{sourceChatID, sourceMsgID}]
	return ok, nil
}

func (m *MockPostRepository) GetPost(sourceChatID, sourceMsgID int64) (*database.PostLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[[2]int64{sourceChatID, sourceMsgID}]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *MockPostRepository) CountPostedSince(since time.Time) (int, error) {
	return 0, nil
}

// stubResolver returns a fixed record per call and counts lookups
type stubResolver struct {
	mu     sync.Mutex
	calls  int
	record metadata.Record
	titles []string
}

func (s *stubResolver) Resolve(ctx context.Context, title string, year int, category media.Category) metadata.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	s.titles = append(s.titles, title)
	if s.record.Source == "" {
		return metadata.NewRecord(title)
	}
	return s.record
}
