package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/media-relay/app/platform"
)

// Inspection is a temporary forward of a source message. Release deletes it.
type Inspection struct {
	Message     *platform.Message
	SourceChat  int64
	SourceMsgID int64

	client platform.Client
	once   sync.Once
}

// Inspect forwards a message into chat so its content can be read.
func (p *Publisher) Inspect(ctx context.Context, sourceChat, msgID, chat int64) (*Inspection, error) {
	fwd, err := p.client.Forward(ctx, chat, sourceChat, msgID)
	if err != nil {
		return nil, err
	}
	if fwd == nil {
		return nil, fmt.Errorf("forward of %d/%d returned no message", sourceChat, msgID)
	}

	return &Inspection{
		Message:     fwd,
		SourceChat:  sourceChat,
		SourceMsgID: msgID,
		client:      p.client,
	}, nil
}

// Source returns the inspected content addressed by its original location.
func (i *Inspection) Source() *platform.Message {
	msg := *i.Message
	msg.ChatID = i.SourceChat
	msg.ID = i.SourceMsgID
	return &msg
}

// Release deletes the forward. Failures are logged and swallowed. Safe to call twice.
func (i *Inspection) Release(ctx context.Context) {
	i.once.Do(func() {
		// the forward must go even when the caller's context is already done
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		if err := i.client.Delete(ctx, i.Message.ChatID, i.Message.ID); err != nil {
			slog.Warn("Failed to delete inspection forward", "chat", i.Message.ChatID, "msg_id", i.Message.ID, "error", err)
		}
	})
}
