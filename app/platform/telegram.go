package platform

import (
	"context"
	"fmt"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

var _ Client = (*Telegram)(nil)

// Telegram implements Client over the Bot API.
type Telegram struct {
	bot *gotgbot.Bot
}

func NewTelegram(bot *gotgbot.Bot) *Telegram {
	return &Telegram{bot: bot}
}

func (t *Telegram) Forward(ctx context.Context, toChat, fromChat, msgID int64) (*Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg, err := t.bot.ForwardMessage(toChat, fromChat, msgID, &gotgbot.ForwardMessageOpts{
		DisableNotification: true,
	})
	if err != nil {
		return nil, fmt.Errorf("forward %d/%d: %w", fromChat, msgID, err)
	}

	return FromTelegram(msg), nil
}

func (t *Telegram) Copy(ctx context.Context, toChat, fromChat, msgID int64, caption string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	opts := &gotgbot.CopyMessageOpts{ParseMode: gotgbot.ParseModeHTML}
	if caption != "" {
		opts.Caption = &caption
	}

	id, err := t.bot.CopyMessage(toChat, fromChat, msgID, opts)
	if err != nil {
		return 0, fmt.Errorf("copy %d/%d: %w", fromChat, msgID, err)
	}

	return id.MessageId, nil
}

func (t *Telegram) SendMedia(ctx context.Context, toChat int64, file File, caption string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	input := gotgbot.InputFileByID(file.ID)

	var (
		sent *gotgbot.Message
		err  error
	)
	switch file.Kind {
	case MediaVideo:
		sent, err = t.bot.SendVideo(toChat, input, &gotgbot.SendVideoOpts{Caption: caption, ParseMode: gotgbot.ParseModeHTML})
	case MediaAudio:
		sent, err = t.bot.SendAudio(toChat, input, &gotgbot.SendAudioOpts{Caption: caption, ParseMode: gotgbot.ParseModeHTML})
	case MediaAnimation:
		sent, err = t.bot.SendAnimation(toChat, input, &gotgbot.SendAnimationOpts{Caption: caption, ParseMode: gotgbot.ParseModeHTML})
	default:
		sent, err = t.bot.SendDocument(toChat, input, &gotgbot.SendDocumentOpts{Caption: caption, ParseMode: gotgbot.ParseModeHTML})
	}
	if err != nil {
		return 0, fmt.Errorf("send %s: %w", file.Kind, err)
	}

	return sent.MessageId, nil
}

func (t *Telegram) Delete(ctx context.Context, chat, msgID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := t.bot.DeleteMessage(chat, msgID, nil); err != nil {
		return fmt.Errorf("delete %d/%d: %w", chat, msgID, err)
	}
	return nil
}

func (t *Telegram) EditCaption(ctx context.Context, chat, msgID int64, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, _, err := t.bot.EditMessageCaption(&gotgbot.EditMessageCaptionOpts{
		ChatId:    chat,
		MessageId: msgID,
		Caption:   caption,
		ParseMode: gotgbot.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("edit caption %d/%d: %w", chat, msgID, err)
	}
	return nil
}

// FromTelegram converts a Bot API message. The first supported attachment wins.
func FromTelegram(msg *gotgbot.Message) *Message {
	if msg == nil {
		return nil
	}

	out := &Message{
		ID:      msg.MessageId,
		ChatID:  msg.Chat.Id,
		Caption: msg.Caption,
		Text:    msg.Text,
	}

	switch {
	case msg.Video != nil:
		v := msg.Video
		out.Media = &File{ID: v.FileId, UniqueID: v.FileUniqueId, Name: v.FileName, Size: v.FileSize, MimeType: v.MimeType, Kind: MediaVideo}
	case msg.Document != nil:
		d := msg.Document
		out.Media = &File{ID: d.FileId, UniqueID: d.FileUniqueId, Name: d.FileName, Size: d.FileSize, MimeType: d.MimeType, Kind: MediaDocument}
	case msg.Audio != nil:
		a := msg.Audio
		out.Media = &File{ID: a.FileId, UniqueID: a.FileUniqueId, Name: a.FileName, Size: a.FileSize, MimeType: a.MimeType, Kind: MediaAudio}
	case msg.Animation != nil:
		an := msg.Animation
		out.Media = &File{ID: an.FileId, UniqueID: an.FileUniqueId, Name: an.FileName, Size: an.FileSize, MimeType: an.MimeType, Kind: MediaAnimation}
	}

	return out
}
