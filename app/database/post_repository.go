package database

import (
	"database/sql"
	"fmt"
	"time"
)

func (s *Store) LogPost(entry PostLogEntry) (bool, error) {
	postedAt := entry.PostedAt
	if postedAt.IsZero() {
		postedAt = time.Now()
	}

	result, err := s.db.Exec(`
		INSERT INTO post_log (source_chat_id, source_msg_id, target_chat_id, target_msg_id, filename, posted_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_chat_id, source_msg_id) DO NOTHING
	`, entry.SourceChatID, entry.SourceMsgID, entry.TargetChatID, entry.TargetMsgID, entry.Filename, postedAt.Unix())
	if err != nil {
		return false, fmt.Errorf("failed to log post: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected == 1, nil
}

func (s *Store) TotalPosted() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM post_log`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

func (s *Store) CountPostedSince(since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM post_log WHERE posted_at >= ?`, since.Unix()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts since %s: %w", since.Format(time.RFC3339), err)
	}
	return count, nil
}

func (s *Store) LastPostTime() (*time.Time, error) {
	var postedAt int64
	err := s.db.QueryRow(`SELECT posted_at FROM post_log ORDER BY posted_at DESC, id DESC LIMIT 1`).Scan(&postedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last post time: %w", err)
	}

	t := time.Unix(postedAt, 0)
	return &t, nil
}

func (s *Store) WasPosted(sourceChatID, sourceMsgID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM post_log WHERE source_chat_id = ? AND source_msg_id = ?)
	`, sourceChatID, sourceMsgID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check post log: %w", err)
	}
	return exists, nil
}

func (s *Store) GetPost(sourceChatID, sourceMsgID int64) (*PostLogEntry, error) {
	var entry PostLogEntry
	var postedAt int64

	err := s.db.QueryRow(`
		SELECT id, source_chat_id, source_msg_id, target_chat_id, target_msg_id, filename, posted_at
		FROM post_log
		WHERE source_chat_id = ? AND source_msg_id = ?
	`, sourceChatID, sourceMsgID).Scan(&entry.ID, &entry.SourceChatID, &entry.SourceMsgID,
		&entry.TargetChatID, &entry.TargetMsgID, &entry.Filename, &postedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	entry.PostedAt = time.Unix(postedAt, 0)
	return &entry, nil
}
