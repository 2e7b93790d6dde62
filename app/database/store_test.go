package database

import (
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "state", "bot_state.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return NewStore(db)
}

func TestNewConnection_EmptyPath(t *testing.T) {
	if _, err := NewConnection(""); err == nil {
		t.Error("Expected error for empty database path")
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := NewConnection(filepath.Join(t.TempDir(), "bot_state.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("First migration run failed: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("Expected version 1 clean, got %d dirty=%v", version, dirty)
	}

	if _, _, err := RunMigrations(db); err != nil {
		t.Errorf("Second migration run should be a no-op, got %v", err)
	}
}

func TestStore_Settings(t *testing.T) {
	store := newTestStore(t)

	value, err := store.Get("custom_tag")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value for missing key, got '%s'", value)
	}

	if err := store.Set("custom_tag", "⚡ Powered by @Chan"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set("custom_tag", "updated"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}

	value, _ = store.Get("custom_tag")
	if value != "updated" {
		t.Errorf("Expected 'updated', got '%s'", value)
	}

	if err := store.Delete("custom_tag"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	value, _ = store.Get("custom_tag")
	if value != "" {
		t.Errorf("Expected deleted key to read empty, got '%s'", value)
	}
}

func TestStore_TypedAccessors(t *testing.T) {
	store := newTestStore(t)

	n, err := store.GetInt("current_msg_id", 7)
	if err != nil || n != 7 {
		t.Errorf("Expected default 7, got %d (err %v)", n, err)
	}

	store.Set("current_msg_id", "42")
	if n, _ := store.GetInt("current_msg_id", 0); n != 42 {
		t.Errorf("Expected 42, got %d", n)
	}

	store.Set("current_msg_id", "garbage")
	if n, _ := store.GetInt("current_msg_id", 5); n != 5 {
		t.Errorf("Expected default 5 for invalid integer, got %d", n)
	}

	tests := map[string]bool{
		"1":     true,
		"true":  true,
		"YES":   true,
		"on":    true,
		"0":     false,
		"false": false,
		"nope":  false,
	}
	for raw, expected := range tests {
		store.Set("paused", raw)
		got, err := store.GetBool("paused", !expected)
		if err != nil {
			t.Fatalf("GetBool failed: %v", err)
		}
		if got != expected {
			t.Errorf("GetBool(%q): expected %v, got %v", raw, expected, got)
		}
	}

	store.Delete("paused")
	if got, _ := store.GetBool("paused", true); !got {
		t.Error("Expected default true for missing key")
	}
}

func TestStore_PostLog(t *testing.T) {
	store := newTestStore(t)

	if last, err := store.LastPostTime(); err != nil || last != nil {
		t.Errorf("Expected no last post time, got %v (err %v)", last, err)
	}

	postedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	inserted, err := store.LogPost(PostLogEntry{
		SourceChatID: -1001,
		SourceMsgID:  42,
		TargetChatID: -1002,
		TargetMsgID:  7,
		Filename:     "Some.Show.S02E05.mkv",
		PostedAt:     postedAt,
	})
	if err != nil || !inserted {
		t.Fatalf("Expected first LogPost to insert, got %v (err %v)", inserted, err)
	}

	inserted, err = store.LogPost(PostLogEntry{SourceChatID: -1001, SourceMsgID: 42, TargetChatID: -1002, TargetMsgID: 8})
	if err != nil {
		t.Fatalf("Duplicate LogPost failed: %v", err)
	}
	if inserted {
		t.Error("Expected duplicate LogPost to be ignored")
	}

	if total, _ := store.TotalPosted(); total != 1 {
		t.Errorf("Expected 1 post, got %d", total)
	}

	posted, _ := store.WasPosted(-1001, 42)
	if !posted {
		t.Error("Expected message 42 to be marked as posted")
	}
	posted, _ = store.WasPosted(-1001, 43)
	if posted {
		t.Error("Expected message 43 not to be marked as posted")
	}

	entry, err := store.GetPost(-1001, 42)
	if err != nil || entry == nil {
		t.Fatalf("Expected stored entry, got %v (err %v)", entry, err)
	}
	if entry.TargetMsgID != 7 || entry.Filename != "Some.Show.S02E05.mkv" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if !entry.PostedAt.Equal(postedAt) {
		t.Errorf("Expected posted_at %v, got %v", postedAt, entry.PostedAt)
	}

	last, _ := store.LastPostTime()
	if last == nil || !last.Equal(postedAt) {
		t.Errorf("Expected last post time %v, got %v", postedAt, last)
	}

	if n, _ := store.CountPostedSince(postedAt.Add(time.Hour)); n != 0 {
		t.Errorf("Expected 0 posts after last post, got %d", n)
	}
	if n, _ := store.CountPostedSince(postedAt.Add(-time.Hour)); n != 1 {
		t.Errorf("Expected 1 post in window, got %d", n)
	}

	missing, err := store.GetPost(-1001, 99)
	if err != nil || missing != nil {
		t.Errorf("Expected nil entry for unknown post, got %v (err %v)", missing, err)
	}
}

func TestStore_LogPostConcurrent(t *testing.T) {
	store := newTestStore(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	insertedCount := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(target int64) {
			defer wg.Done()
			inserted, err := store.LogPost(PostLogEntry{SourceChatID: 1, SourceMsgID: 10, TargetChatID: 2, TargetMsgID: target})
			if err != nil {
				t.Errorf("LogPost failed: %v", err)
				return
			}
			if inserted {
				mu.Lock()
				insertedCount++
				mu.Unlock()
			}
		}(int64(i))
	}
	wg.Wait()

	if insertedCount != 1 {
		t.Errorf("Expected exactly one insert, got %d", insertedCount)
	}
	if total, _ := store.TotalPosted(); total != 1 {
		t.Errorf("Expected 1 row, got %d", total)
	}
}

func TestStore_AdminsAndFilters(t *testing.T) {
	store := newTestStore(t)

	store.AddAdmin(300)
	store.AddAdmin(100)
	store.AddAdmin(100)

	admins, err := store.ListAdmins()
	if err != nil {
		t.Fatalf("ListAdmins failed: %v", err)
	}
	if len(admins) != 2 || admins[0] != 100 || admins[1] != 300 {
		t.Errorf("Expected [100 300], got %v", admins)
	}

	store.RemoveAdmin(100)
	admins, _ = store.ListAdmins()
	if len(admins) != 1 || admins[0] != 300 {
		t.Errorf("Expected [300], got %v", admins)
	}

	if err := store.AddFilter("  CAM "); err != nil {
		t.Fatalf("AddFilter failed: %v", err)
	}
	store.AddFilter("cam")
	store.AddFilter("telesync")
	if err := store.AddFilter("   "); err == nil {
		t.Error("Expected error for empty keyword")
	}

	filters, _ := store.ListFilters()
	if len(filters) != 2 || filters[0] != "cam" || filters[1] != "telesync" {
		t.Errorf("Expected [cam telesync], got %v", filters)
	}

	store.RemoveFilter("CAM")
	filters, _ = store.ListFilters()
	if len(filters) != 1 || filters[0] != "telesync" {
		t.Errorf("Expected [telesync], got %v", filters)
	}
}
