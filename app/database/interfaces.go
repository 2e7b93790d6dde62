package database

import (
	"time"
)

// SettingsRepository is a flat key/value store. Missing keys read as "" or the
// supplied default.
type SettingsRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	GetInt(key string, def int64) (int64, error)
	GetBool(key string, def bool) (bool, error)
}

// PostRepository is the append-only publish log. LogPost reports false when an entry
// for the same source message already exists.
type PostRepository interface {
	LogPost(entry PostLogEntry) (bool, error)
	TotalPosted() (int, error)
	LastPostTime() (*time.Time, error)
	WasPosted(sourceChatID, sourceMsgID int64) (bool, error)
	GetPost(sourceChatID, sourceMsgID int64) (*PostLogEntry, error)
	CountPostedSince(since time.Time) (int, error)
}

type AdminRepository interface {
	AddAdmin(userID int64) error
	RemoveAdmin(userID int64) error
	ListAdmins() ([]int64, error)
}

type FilterRepository interface {
	AddFilter(keyword string) error
	RemoveFilter(keyword string) error
	ListFilters() ([]string, error)
}
