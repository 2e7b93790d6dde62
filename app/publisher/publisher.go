package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lysyi3m/media-relay/app/caption"
	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/media"
	"github.com/lysyi3m/media-relay/app/platform"
)

type Publisher struct {
	client   platform.Client
	resolver Resolver
	posts    database.PostRepository
}

func New(client platform.Client, resolver Resolver, posts database.PostRepository) *Publisher {
	return &Publisher{
		client:   client,
		resolver: resolver,
		posts:    posts,
	}
}

// Extract pulls the media handle out of a message.
func Extract(msg *platform.Message) (MediaReference, error) {
	if msg == nil || msg.Media == nil || msg.Media.ID == "" {
		return MediaReference{}, ErrNoMedia
	}

	return MediaReference{
		File:     *msg.Media,
		Filename: msg.Filename(),
		Size:     msg.Media.Size,
		Kind:     msg.Media.Kind,
	}, nil
}

// PublishMessage posts a message that is already in hand. A message without
// media yields StatusNoMedia and no error.
func (p *Publisher) PublishMessage(ctx context.Context, msg *platform.Message, opts Options) (Result, error) {
	result := Result{RunID: uuid.NewString()}

	ref, err := Extract(msg)
	if err != nil {
		result.Status = StatusNoMedia
		slog.Debug("Nothing to publish", "run_id", result.RunID, "source", chatOf(msg), "msg_id", idOf(msg))
		return result, nil
	}

	result.Filename = ref.Filename
	text, category, provider := p.render(ctx, ref, opts)
	result.Category = category
	result.Provider = provider

	slog.Info("Publishing", "run_id", result.RunID, "file", ref.Filename, "kind", string(ref.Kind), "category", string(category), "target", opts.TargetChat)

	sentID, err := p.client.SendMedia(ctx, opts.TargetChat, ref.File, text)
	if err == nil {
		result.Status = StatusPublished
	} else {
		slog.Error("Primary send failed, falling back to copy", "run_id", result.RunID, "file", ref.Filename, "error", err)

		sentID, err = p.client.Copy(ctx, opts.TargetChat, msg.ChatID, msg.ID, text)
		if err != nil {
			result.Status = StatusFailed
			slog.Error("Both send methods failed", "run_id", result.RunID, "file", ref.Filename, "error", err)
			return result, fmt.Errorf("failed to publish %d/%d: %w", msg.ChatID, msg.ID, err)
		}
		result.Status = StatusCopied
	}
	result.TargetMsgID = sentID

	slog.Info("Posted", "run_id", result.RunID, "file", ref.Filename, "target_msg_id", sentID, "provider", provider)

	return p.logPost(result, msg.ChatID, msg.ID, opts.TargetChat)
}

// PublishReference posts a message known only by chat and id. The message is
// forwarded to the target for inspection and the forward is always removed.
func (p *Publisher) PublishReference(ctx context.Context, sourceChat, msgID int64, opts Options) (Result, error) {
	insp, err := p.Inspect(ctx, sourceChat, msgID, opts.TargetChat)
	if err != nil {
		slog.Warn("Could not forward for inspection, trying plain copy", "source", sourceChat, "msg_id", msgID, "error", err)
		return p.CopyPlain(ctx, sourceChat, msgID, opts)
	}
	defer insp.Release(ctx)

	return p.PublishInspected(ctx, insp, opts)
}

// PublishInspected publishes the message behind an open inspection. The caller
// still owns the inspection and must release it.
func (p *Publisher) PublishInspected(ctx context.Context, insp *Inspection, opts Options) (Result, error) {
	msg := insp.Source()
	return p.PublishMessage(ctx, msg, opts)
}

// Recaption rebuilds the caption of an already published post from its logged
// filename and edits it in place.
func (p *Publisher) Recaption(ctx context.Context, sourceChat, msgID int64, opts Options) (Result, error) {
	result := Result{RunID: uuid.NewString()}

	entry, err := p.posts.GetPost(sourceChat, msgID)
	if err != nil {
		return result, fmt.Errorf("failed to load post: %w", err)
	}
	if entry == nil {
		return result, ErrNotLogged
	}
	if entry.Filename == "" {
		return result, fmt.Errorf("post %d/%d has no recorded filename", sourceChat, msgID)
	}

	ref := MediaReference{Filename: entry.Filename}
	if insp, err := p.Inspect(ctx, entry.TargetChatID, entry.TargetMsgID, entry.TargetChatID); err == nil {
		if insp.Message.Media != nil {
			ref.Size = insp.Message.Media.Size
			ref.Kind = insp.Message.Media.Kind
		}
		insp.Release(ctx)
	} else {
		slog.Debug("Could not inspect published post, size unknown", "run_id", result.RunID, "error", err)
	}

	text, category, provider := p.render(ctx, ref, opts)
	if err := p.client.EditCaption(ctx, entry.TargetChatID, entry.TargetMsgID, text); err != nil {
		result.Status = StatusFailed
		return result, fmt.Errorf("failed to edit caption: %w", err)
	}

	result.Status = StatusPublished
	result.TargetMsgID = entry.TargetMsgID
	result.Filename = entry.Filename
	result.Category = category
	result.Provider = provider

	slog.Info("Caption rebuilt", "run_id", result.RunID, "file", entry.Filename, "target_msg_id", entry.TargetMsgID)
	return result, nil
}

func (p *Publisher) render(ctx context.Context, ref MediaReference, opts Options) (string, media.Category, string) {
	cleaned := media.Normalize(ref.Filename)
	guess := media.Parse(ref.Filename, cleaned)
	category := media.Classify(ref.Filename, guess)

	record := p.resolver.Resolve(ctx, guess.Title, guess.Year, category)

	text := caption.Build(caption.Input{
		Category:    category,
		Record:      record,
		Guess:       guess,
		Size:        ref.Size,
		ChannelName: opts.ChannelName,
		ChannelLink: opts.ChannelLink,
		CustomTag:   opts.CustomTag,
		ExtraTags:   opts.ExtraTags,
	})

	return caption.Truncate(text, caption.MaxLength), category, record.Source
}

// CopyPlain copies a message to the target without a rebuilt caption. It is the
// fallback for messages that cannot be forwarded for inspection.
func (p *Publisher) CopyPlain(ctx context.Context, sourceChat, msgID int64, opts Options) (Result, error) {
	result := Result{RunID: uuid.NewString()}

	sentID, err := p.client.Copy(ctx, opts.TargetChat, sourceChat, msgID, "")
	if err != nil {
		result.Status = StatusFailed
		slog.Error("Copy fallback failed", "run_id", result.RunID, "source", sourceChat, "msg_id", msgID, "error", err)
		return result, fmt.Errorf("failed to copy %d/%d: %w", sourceChat, msgID, err)
	}

	result.Status = StatusCopied
	result.TargetMsgID = sentID
	return p.logPost(result, sourceChat, msgID, opts.TargetChat)
}

func (p *Publisher) logPost(result Result, sourceChat, msgID, targetChat int64) (Result, error) {
	inserted, err := p.posts.LogPost(database.PostLogEntry{
		SourceChatID: sourceChat,
		SourceMsgID:  msgID,
		TargetChatID: targetChat,
		TargetMsgID:  result.TargetMsgID,
		Filename:     result.Filename,
		PostedAt:     time.Now().UTC(),
	})
	if err != nil {
		slog.Error("Failed to record post", "run_id", result.RunID, "source", sourceChat, "msg_id", msgID, "error", err)
		return result, fmt.Errorf("failed to record post: %w", err)
	}
	if !inserted {
		slog.Warn("Post was already recorded", "run_id", result.RunID, "source", sourceChat, "msg_id", msgID)
	}

	result.Logged = inserted
	return result, nil
}

func chatOf(msg *platform.Message) int64 {
	if msg == nil {
		return 0
	}
	return msg.ChatID
}

func idOf(msg *platform.Message) int64 {
	if msg == nil {
		return 0
	}
	return msg.ID
}
