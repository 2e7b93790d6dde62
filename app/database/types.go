package database

import (
	"time"
)

type PostLogEntry struct {
	ID           int64
	SourceChatID int64
	SourceMsgID  int64
	TargetChatID int64
	TargetMsgID  int64
	Filename     string
	PostedAt     time.Time
}
