package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/callbackquery"

	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/platform"
	"github.com/lysyi3m/media-relay/app/tasks"
)

const failureText = "❌  Something went wrong, check the logs."

var allowedUpdates = []string{"message", "channel_post", "callback_query"}

// Bot receives updates by long polling and routes them to the admin commands
// and the live relay.
type Bot struct {
	api        *gotgbot.Bot
	dispatcher *ext.Dispatcher
	updater    *ext.Updater
	commands   *Commands
	guard      *Guard
	controls   *tasks.Controls
	posts      database.PostRepository
	scheduler  tasks.TaskSchedulerInterface
	publisher  tasks.Publisher
	timeout    time.Duration
}

type Deps struct {
	Controls  *tasks.Controls
	Posts     database.PostRepository
	Admins    database.AdminRepository
	Scheduler tasks.TaskSchedulerInterface
	Publisher tasks.Publisher
	AdminIDs  []int64
}

func New(api *gotgbot.Bot, deps Deps) *Bot {
	guard := NewGuard(deps.AdminIDs, deps.Admins)

	b := &Bot{
		api:       api,
		commands:  NewCommands(deps.Controls, deps.Posts, deps.Admins, guard, deps.Scheduler, deps.Publisher),
		guard:     guard,
		controls:  deps.Controls,
		posts:     deps.Posts,
		scheduler: deps.Scheduler,
		publisher: deps.Publisher,
		timeout:   2 * time.Minute,
	}

	b.dispatcher = ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(_ *gotgbot.Bot, _ *ext.Context, err error) ext.DispatcherAction {
			slog.Error("Update handler failed", "error", err)
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	b.updater = ext.NewUpdater(b.dispatcher, nil)
	b.register()

	return b
}

type command struct {
	name string
	run  func(ctx context.Context, args string, fwd Forwarded) (Reply, error)
}

func (b *Bot) commandTable() []command {
	c := b.commands
	noArgs := func(fn func() (Reply, error)) func(context.Context, string, Forwarded) (Reply, error) {
		return func(context.Context, string, Forwarded) (Reply, error) { return fn() }
	}
	withArgs := func(fn func(string) (Reply, error)) func(context.Context, string, Forwarded) (Reply, error) {
		return func(_ context.Context, args string, _ Forwarded) (Reply, error) { return fn(args) }
	}

	return []command{
		{"start", noArgs(c.Start)},
		{"help", noArgs(c.Help)},
		{"status", noArgs(c.Status)},
		{"stats", noArgs(c.Stats)},
		{"setsource", func(_ context.Context, args string, fwd Forwarded) (Reply, error) { return c.SetSource(args, fwd) }},
		{"settarget", func(_ context.Context, args string, fwd Forwarded) (Reply, error) { return c.SetTarget(args, fwd) }},
		{"channels", noArgs(c.Channels)},
		{"setstart", func(_ context.Context, args string, fwd Forwarded) (Reply, error) { return c.SetStart(args, fwd) }},
		{"interval", withArgs(c.Interval)},
		{"pause", noArgs(c.Pause)},
		{"resume", noArgs(c.Resume)},
		{"skipnext", noArgs(c.SkipNext)},
		{"testpost", func(ctx context.Context, _ string, _ Forwarded) (Reply, error) { return c.TestPost(ctx) }},
		{"queue", noArgs(c.Queue)},
		{"settag", withArgs(c.SetTag)},
		{"cleartag", noArgs(c.ClearTag)},
		{"addtag", withArgs(c.AddTag)},
		{"removetag", withArgs(c.RemoveTag)},
		{"tags", noArgs(c.Tags)},
		{"addadmin", withArgs(c.AddAdmin)},
		{"removeadmin", withArgs(c.RemoveAdmin)},
		{"admins", noArgs(c.Admins)},
		{"addfilter", withArgs(c.AddFilter)},
		{"removefilter", withArgs(c.RemoveFilter)},
		{"filters", noArgs(c.Filters)},
		{"recaption", withArgs(c.Recaption)},
	}
}

// callbackCommands maps dashboard buttons onto commands.
var callbackCommands = map[string]string{
	"cb_status":   "status",
	"cb_stats":    "stats",
	"cb_resume":   "resume",
	"cb_pause":    "pause",
	"cb_skip":     "skipnext",
	"cb_testpost": "testpost",
	"cb_channels": "channels",
	"cb_tags":     "tags",
	"cb_help":     "help",
}

func mainKeyboard() gotgbot.InlineKeyboardMarkup {
	button := func(text, data string) gotgbot.InlineKeyboardButton {
		return gotgbot.InlineKeyboardButton{Text: text, CallbackData: data}
	}

	return gotgbot.InlineKeyboardMarkup{InlineKeyboard: [][]gotgbot.InlineKeyboardButton{
		{button("📊 Status", "cb_status"), button("📈 Stats", "cb_stats")},
		{button("▶️ Resume", "cb_resume"), button("⏸ Pause", "cb_pause")},
		{button("⏭ Skip Next", "cb_skip"), button("🧪 Test Post", "cb_testpost")},
		{button("🔗 Channels", "cb_channels"), button("🏷 Tags", "cb_tags")},
		{button("❓ Help", "cb_help")},
	}}
}

func (b *Bot) register() {
	table := b.commandTable()
	byName := make(map[string]command, len(table))

	for _, cmd := range table {
		byName[cmd.name] = cmd
		b.dispatcher.AddHandler(handlers.NewCommand(cmd.name, b.adminCommand(cmd)))
	}

	b.dispatcher.AddHandler(handlers.NewCallback(callbackquery.Prefix("cb_"), func(api *gotgbot.Bot, ctx *ext.Context) error {
		return b.handleCallback(api, ctx, byName)
	}))

	b.dispatcher.AddHandler(handlers.NewMessage(isSourceMedia, b.handleLive).SetAllowChannel(true))
}

// isSourceMedia matches media posts in channels and groups.
func isSourceMedia(msg *gotgbot.Message) bool {
	switch msg.Chat.Type {
	case "channel", "group", "supergroup":
	default:
		return false
	}
	return msg.Video != nil || msg.Document != nil || msg.Audio != nil || msg.Animation != nil
}

func (b *Bot) adminCommand(cmd command) handlers.Response {
	return func(api *gotgbot.Bot, ctx *ext.Context) error {
		msg := ctx.EffectiveMessage
		if msg == nil {
			return nil
		}

		var uid int64
		if ctx.EffectiveUser != nil {
			uid = ctx.EffectiveUser.Id
		}
		if !b.guard.IsAdmin(uid) {
			slog.Warn("Rejected command from non-admin", "command", cmd.name, "user_id", uid)
			return b.send(msg.Chat.Id, Reply{Text: deniedText})
		}

		if cmd.name == "testpost" {
			if err := b.send(msg.Chat.Id, Reply{Text: "🧪  Force-posting next message now…"}); err != nil {
				return err
			}
		}

		args := commandArgs(ctx.Args())
		return b.run(msg.Chat.Id, cmd, args, forwardedFrom(msg))
	}
}

func (b *Bot) handleCallback(api *gotgbot.Bot, ctx *ext.Context, byName map[string]command) error {
	cq := ctx.CallbackQuery
	if _, err := cq.Answer(api, nil); err != nil {
		slog.Debug("Failed to answer callback", "error", err)
	}

	chat := cq.From.Id
	if ctx.EffectiveChat != nil {
		chat = ctx.EffectiveChat.Id
	}
	if !b.guard.IsAdmin(cq.From.Id) {
		slog.Warn("Rejected callback from non-admin", "data", cq.Data, "user_id", cq.From.Id)
		return b.send(chat, Reply{Text: deniedText})
	}

	cmd, ok := byName[callbackCommands[cq.Data]]
	if !ok {
		slog.Debug("Unknown callback", "data", cq.Data)
		return nil
	}
	if cmd.name == "testpost" {
		if err := b.send(chat, Reply{Text: "🧪  Force-posting next message now…"}); err != nil {
			return err
		}
	}
	return b.run(chat, cmd, "", Forwarded{})
}

func (b *Bot) run(chat int64, cmd command, args string, fwd Forwarded) error {
	runCtx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	start := time.Now()
	reply, err := cmd.run(runCtx, args, fwd)
	if err != nil {
		slog.Error("Command failed", "command", cmd.name, "error", err)
		reply = Reply{Text: failureText}
	} else {
		slog.Debug("Command handled", "command", cmd.name, "duration", time.Since(start))
	}

	return b.send(chat, reply)
}

func (b *Bot) send(chat int64, reply Reply) error {
	opts := &gotgbot.SendMessageOpts{ParseMode: gotgbot.ParseModeHTML}
	if reply.Keyboard {
		opts.ReplyMarkup = mainKeyboard()
	}

	if _, err := b.api.SendMessage(chat, reply.Text, opts); err != nil {
		return fmt.Errorf("failed to send reply to %d: %w", chat, err)
	}
	return nil
}

// handleLive relays a media post that just arrived. The checks themselves run
// in the task so a slow publish never blocks the dispatcher.
func (b *Bot) handleLive(_ *gotgbot.Bot, ctx *ext.Context) error {
	msg := platform.FromTelegram(ctx.EffectiveMessage)
	if msg == nil || msg.Media == nil {
		return nil
	}

	task := tasks.NewPublishLiveTask(msg, b.controls, b.posts, b.publisher)
	if err := b.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to queue live message", "chat", msg.ChatID, "msg_id", msg.ID, "error", err)
		return nil
	}

	slog.Debug("Live message queued", "chat", msg.ChatID, "msg_id", msg.ID)
	return nil
}

// commandArgs drops the command itself from the split message text.
func commandArgs(fields []string) string {
	if len(fields) <= 1 {
		return ""
	}
	return strings.Join(fields[1:], " ")
}

// forwardedFrom looks at the message and the message it replies to for a
// forward from a channel or group.
func forwardedFrom(msg *gotgbot.Message) Forwarded {
	for _, m := range []*gotgbot.Message{msg, msg.ReplyToMessage} {
		if m == nil || m.ForwardOrigin == nil {
			continue
		}

		origin := m.ForwardOrigin.MergeMessageOrigin()
		if origin.Chat != nil {
			return Forwarded{Chat: origin.Chat.Id, MsgID: origin.MessageId}
		}
		if origin.SenderChat != nil {
			return Forwarded{Chat: origin.SenderChat.Id}
		}
	}
	return Forwarded{}
}

// Start begins long polling. It returns once polling is running.
func (b *Bot) Start() error {
	err := b.updater.StartPolling(b.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &gotgbot.GetUpdatesOpts{
			Timeout:        9,
			AllowedUpdates: allowedUpdates,
			RequestOpts: &gotgbot.RequestOpts{
				Timeout: 10 * time.Second,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	slog.Info("Bot polling started", "username", b.api.User.Username)
	return nil
}

func (b *Bot) Stop() {
	if err := b.updater.Stop(); err != nil {
		slog.Warn("Failed to stop updater", "error", err)
	}
}
