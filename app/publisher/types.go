package publisher

import (
	"context"
	"errors"

	"github.com/lysyi3m/media-relay/app/media"
	"github.com/lysyi3m/media-relay/app/metadata"
	"github.com/lysyi3m/media-relay/app/platform"
)

var (
	// ErrNoMedia means the message carries nothing to publish. Callers treat it as a no-op.
	ErrNoMedia   = errors.New("message carries no supported media")
	ErrNotLogged = errors.New("message was never published")
)

type Status string

const (
	StatusPublished Status = "published"
	StatusCopied    Status = "copied"
	StatusNoMedia   Status = "no_media"
	StatusFailed    Status = "failed"
)

// MediaReference identifies a file by platform handle, without moving bytes.
type MediaReference struct {
	File     platform.File
	Filename string
	Size     int64
	Kind     platform.MediaKind
}

// Options are the per-publish presentation settings.
type Options struct {
	TargetChat  int64
	ChannelName string
	ChannelLink string
	CustomTag   string
	ExtraTags   []string
}

type Result struct {
	Status      Status
	RunID       string
	TargetMsgID int64
	Filename    string
	Category    media.Category
	Provider    string
	Logged      bool
}

func (r Result) Sent() bool {
	return r.Status == StatusPublished || r.Status == StatusCopied
}

// Resolver looks up descriptive metadata for a title. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, title string, year int, category media.Category) metadata.Record
}
