package platform

import "context"

// Client is the subset of the messaging platform the relay needs. Every call may
// fail with a transport error.
type Client interface {
	Forward(ctx context.Context, toChat, fromChat, msgID int64) (*Message, error)
	// Copy re-sends a message without the forward header. An empty caption keeps
	// the original one.
	Copy(ctx context.Context, toChat, fromChat, msgID int64, caption string) (int64, error)
	SendMedia(ctx context.Context, toChat int64, file File, caption string) (int64, error)
	Delete(ctx context.Context, chat, msgID int64) error
	EditCaption(ctx context.Context, chat, msgID int64, caption string) error
}
