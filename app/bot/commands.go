package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/tasks"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━"

const helpText = "📖  <b>Admin Command Reference</b>\n" + rule + "\n\n" +
	"<b>Channel Config</b>\n" +
	"/setsource  - Set source channel\n" +
	"   → Reply to a forwarded message, or paste channel ID / t.me link\n" +
	"/settarget  - Set target channel\n" +
	"   → Paste channel ID or reply to a forwarded message\n" +
	"/channels   - Show current channels\n\n" +
	"<b>Queue &amp; Scheduling</b>\n" +
	"/setstart   - Set the start message\n" +
	"   → Reply to the forwarded message you want to start from\n" +
	"   → Or paste its t.me link\n" +
	"/interval 10m  - Post every 10 minutes\n" +
	"/interval 2h   - Post every 2 hours\n" +
	"/interval 30s  - Post every 30 seconds\n" +
	"/pause      - Pause posting\n" +
	"/resume     - Resume posting\n" +
	"/skipnext   - Skip the next queued message\n" +
	"/queue      - Show queue status\n" +
	"/testpost   - Force-post now (ignore interval)\n" +
	"/recaption &lt;msg_id&gt; - Rebuild the caption of a published post\n\n" +
	"<b>Caption &amp; Tags</b>\n" +
	"/settag ⚡ Powered by @Chan  - Set footer tag\n" +
	"/cleartag   - Remove footer tag\n" +
	"/addtag &lt;text&gt;   - Add extra tag line\n" +
	"/removetag &lt;text&gt; - Remove a tag line\n" +
	"/tags       - List all tags\n\n" +
	"<b>Filters</b>\n" +
	"/addfilter &lt;word&gt;    - Skip files containing a keyword\n" +
	"/removefilter &lt;word&gt; - Remove a keyword\n" +
	"/filters    - List keywords\n\n" +
	"<b>Admin Management</b>\n" +
	"/addadmin 123456    - Grant admin\n" +
	"/removeadmin 123456 - Revoke admin\n" +
	"/admins     - List all admins\n\n" +
	"<b>Info</b>\n" +
	"/status     - Full status\n" +
	"/stats      - Posting statistics\n"

const noPointerText = "❓  No start message set. Use /setstart first."

// Reply is the text answer to an admin command.
type Reply struct {
	Text     string
	Keyboard bool
}

// Forwarded carries the origin of a forwarded message the command refers to.
type Forwarded struct {
	Chat  int64
	MsgID int64
}

// Commands implements the admin command set on top of the relay controls.
type Commands struct {
	controls  *tasks.Controls
	posts     database.PostRepository
	admins    database.AdminRepository
	guard     *Guard
	scheduler tasks.TaskSchedulerInterface
	publisher tasks.Publisher
	now       func() time.Time
}

func NewCommands(controls *tasks.Controls, posts database.PostRepository, admins database.AdminRepository, guard *Guard, scheduler tasks.TaskSchedulerInterface, pub tasks.Publisher) *Commands {
	return &Commands{
		controls:  controls,
		posts:     posts,
		admins:    admins,
		guard:     guard,
		scheduler: scheduler,
		publisher: pub,
		now:       time.Now,
	}
}

func chatLabel(id int64) string {
	if id == 0 {
		return "<i>not set</i>"
	}
	return fmt.Sprintf("<code>%d</code>", id)
}

func stateLabel(paused bool) string {
	if paused {
		return "⏸ PAUSED"
	}
	return "▶️ RUNNING"
}

func (c *Commands) lastPost() (string, error) {
	last, err := c.posts.LastPostTime()
	if err != nil {
		return "", err
	}
	if last == nil {
		return "Never", nil
	}
	return last.UTC().Format("2006-01-02 15:04:05"), nil
}

func (c *Commands) Start() (Reply, error) {
	state, err := c.controls.Load()
	if err != nil {
		return Reply{}, err
	}
	posted, err := c.posts.TotalPosted()
	if err != nil {
		return Reply{}, err
	}

	text := "🎬  <b>Media Relay Admin Panel</b>\n" + rule + "\n\n" +
		fmt.Sprintf("<b>Status   :</b>  %s\n", stateLabel(state.Paused)) +
		fmt.Sprintf("<b>Source   :</b>  %s\n", chatLabel(state.SourceChat)) +
		fmt.Sprintf("<b>Target   :</b>  %s\n", chatLabel(state.TargetChat)) +
		fmt.Sprintf("<b>Interval :</b>  <code>%s</code>\n", FormatInterval(state.IntervalSeconds)) +
		fmt.Sprintf("<b>Pointer  :</b>  msg_id <code>%d</code>\n", state.CurrentMsgID) +
		fmt.Sprintf("<b>Posted   :</b>  <code>%d</code> files\n\n", posted) +
		"Use the buttons below or type /help for all commands."

	return Reply{Text: text, Keyboard: true}, nil
}

func (c *Commands) Help() (Reply, error) {
	return Reply{Text: helpText}, nil
}

func (c *Commands) Status() (Reply, error) {
	state, err := c.controls.Load()
	if err != nil {
		return Reply{}, err
	}
	posted, err := c.posts.TotalPosted()
	if err != nil {
		return Reply{}, err
	}
	last, err := c.lastPost()
	if err != nil {
		return Reply{}, err
	}

	tag := "<i>none</i>"
	if state.CustomTag != "" {
		tag = html.EscapeString(state.CustomTag)
	}
	extra := "  <i>none</i>"
	if len(state.ExtraTags) > 0 {
		lines := make([]string, len(state.ExtraTags))
		for i, t := range state.ExtraTags {
			lines[i] = "  • " + html.EscapeString(t)
		}
		extra = strings.Join(lines, "\n")
	}

	text := "📊  <b>Full Bot Status</b>\n" + rule + "\n\n" +
		fmt.Sprintf("<b>State      :</b> %s\n", stateLabel(state.Paused)) +
		fmt.Sprintf("<b>Source     :</b> %s\n", chatLabel(state.SourceChat)) +
		fmt.Sprintf("<b>Target     :</b> %s\n", chatLabel(state.TargetChat)) +
		fmt.Sprintf("<b>Interval   :</b> <code>%s</code>\n", FormatInterval(state.IntervalSeconds)) +
		fmt.Sprintf("<b>Start msg  :</b> <code>%d</code>\n", state.StartMsgID) +
		fmt.Sprintf("<b>Current ptr:</b> <code>%d</code>\n", state.CurrentMsgID) +
		fmt.Sprintf("<b>Total posts:</b> <code>%d</code>\n", posted) +
		fmt.Sprintf("<b>Last post  :</b> <code>%s</code>\n", last) +
		fmt.Sprintf("<b>Filters    :</b> <code>%d</code>\n", len(state.Filters)) +
		fmt.Sprintf("<b>Footer tag :</b> %s\n", tag) +
		fmt.Sprintf("<b>Extra tags :</b>\n%s\n", extra)

	return Reply{Text: text}, nil
}

func (c *Commands) Stats() (Reply, error) {
	state, err := c.controls.Load()
	if err != nil {
		return Reply{}, err
	}
	posted, err := c.posts.TotalPosted()
	if err != nil {
		return Reply{}, err
	}
	last, err := c.lastPost()
	if err != nil {
		return Reply{}, err
	}
	recent, err := c.posts.CountPostedSince(c.now().Add(-24 * time.Hour))
	if err != nil {
		return Reply{}, err
	}

	var daily, weekly int64
	if posted > 0 && state.IntervalSeconds > 0 {
		daily = 86400 / state.IntervalSeconds
		weekly = daily * 7
	}

	text := "📈  <b>Posting Statistics</b>\n" + rule + "\n\n" +
		fmt.Sprintf("<b>Total posted   :</b> <code>%d</code>\n", posted) +
		fmt.Sprintf("<b>Last 24 hours  :</b> <code>%d</code>\n", recent) +
		fmt.Sprintf("<b>Last post      :</b> <code>%s</code>\n", last) +
		fmt.Sprintf("<b>Current interval:</b> <code>%s</code>\n", FormatInterval(state.IntervalSeconds)) +
		fmt.Sprintf("<b>Estimated/day  :</b> <code>~%d</code>\n", daily) +
		fmt.Sprintf("<b>Estimated/week :</b> <code>~%d</code>\n", weekly)

	return Reply{Text: text}, nil
}

func (c *Commands) Channels() (Reply, error) {
	state, err := c.controls.Load()
	if err != nil {
		return Reply{}, err
	}

	text := "🔗 <b>Channel Config</b>\n\n" +
		fmt.Sprintf("<b>Source :</b> %s\n", chatLabel(state.SourceChat)) +
		fmt.Sprintf("<b>Target :</b> %s", chatLabel(state.TargetChat))

	return Reply{Text: text}, nil
}

func chatUsage(err error) string {
	if errors.Is(err, ErrPublicLink) {
		return "❌  Usernames and public links cannot be used. Paste the numeric channel ID (e.g. <code>-1001234567890</code>) or reply to a forwarded message."
	}
	return ""
}

func (c *Commands) SetSource(arg string, fwd Forwarded) (Reply, error) {
	chat := fwd.Chat
	if chat == 0 && arg != "" {
		parsed, err := ParseChatID(arg)
		if text := chatUsage(err); text != "" {
			return Reply{Text: text}, nil
		}
		if err == nil {
			chat = parsed
		}
	}

	if chat == 0 {
		return Reply{Text: "❓  Send me the source channel in one of these ways:\n" +
			"• Reply to a message forwarded from it\n" +
			"• Paste the channel ID (e.g. <code>-1001234567890</code>)\n" +
			"• Paste a t.me/c/ message link"}, nil
	}

	if err := c.controls.SetSource(chat); err != nil {
		return Reply{}, err
	}
	slog.Info("Source channel set", "chat", chat)
	return Reply{Text: fmt.Sprintf("✅ Source channel set to <code>%d</code>", chat)}, nil
}

func (c *Commands) SetTarget(arg string, fwd Forwarded) (Reply, error) {
	chat := fwd.Chat
	if chat == 0 && arg != "" {
		parsed, err := ParseChatID(arg)
		if text := chatUsage(err); text != "" {
			return Reply{Text: text}, nil
		}
		if err == nil {
			chat = parsed
		}
	}

	if chat == 0 {
		return Reply{Text: "Usage: /settarget <code>-1001234567890</code>"}, nil
	}

	if err := c.controls.SetTarget(chat); err != nil {
		return Reply{}, err
	}
	slog.Info("Target channel set", "chat", chat)
	return Reply{Text: fmt.Sprintf("✅ Target channel set to <code>%d</code>", chat)}, nil
}

func (c *Commands) SetStart(arg string, fwd Forwarded) (Reply, error) {
	if fwd.Chat != 0 && fwd.MsgID > 0 {
		if err := c.controls.SetStart(fwd.Chat, fwd.MsgID); err != nil {
			return Reply{}, err
		}
		slog.Info("Start message set", "chat", fwd.Chat, "msg_id", fwd.MsgID)
		return Reply{Text: "✅  Start message set!\n\n" +
			fmt.Sprintf("<b>Channel :</b> <code>%d</code>\n", fwd.Chat) +
			fmt.Sprintf("<b>Msg ID  :</b> <code>%d</code>\n\n", fwd.MsgID) +
			"The bot will begin posting from this message.\n" +
			"Use /resume to start the queue."}, nil
	}

	if strings.Contains(arg, "t.me") {
		chat, msgID, err := ParseTMeLink(arg)
		if text := chatUsage(err); text != "" {
			return Reply{Text: text}, nil
		}
		if err == nil {
			if err := c.controls.SetStart(chat, msgID); err != nil {
				return Reply{}, err
			}
			slog.Info("Start message set from link", "chat", chat, "msg_id", msgID)
			return Reply{Text: "✅  Start message set from link!\n\n" +
				fmt.Sprintf("<b>Channel :</b> <code>%d</code>\n", chat) +
				fmt.Sprintf("<b>Msg ID  :</b> <code>%d</code>\n\n", msgID) +
				"Use /resume to start."}, nil
		}
	}

	return Reply{Text: "📌  <b>How to set a start message:</b>\n\n" +
		"Option 1: forward the message\n" +
		"  Go to the source channel, find the message you want\n" +
		"  to start from, <b>forward it to this bot</b> and reply\n" +
		"  to it with /setstart.\n\n" +
		"Option 2: paste the t.me link\n" +
		"  /setstart https://t.me/c/1234567890/99"}, nil
}

func (c *Commands) Interval(arg string) (Reply, error) {
	if strings.TrimSpace(arg) == "" {
		state, err := c.controls.Load()
		if err != nil {
			return Reply{}, err
		}
		return Reply{Text: fmt.Sprintf("⏱  Current interval: <b>%s</b>\n\n", FormatInterval(state.IntervalSeconds)) +
			"Usage: /interval &lt;value&gt;\n" +
			"Examples:\n" +
			"  /interval 30s\n" +
			"  /interval 10m\n" +
			"  /interval 2h\n" +
			"  /interval 1h30m\n" +
			"  /interval 1d"}, nil
	}

	seconds, ok := ParseInterval(arg)
	if !ok {
		return Reply{Text: "❌  Could not parse that interval. Allowed range is 1s to " + FormatInterval(tasks.MaxIntervalSeconds) + ".\n" +
			"Examples: <code>30s</code>  <code>10m</code>  <code>2h</code>  <code>1d</code>"}, nil
	}

	// timer first, so a value the scheduler refuses is never stored
	if err := c.scheduler.Reschedule(time.Duration(seconds) * time.Second); err != nil {
		return Reply{}, fmt.Errorf("failed to reschedule: %w", err)
	}
	if err := c.controls.SetInterval(seconds); err != nil {
		return Reply{}, err
	}

	return Reply{Text: fmt.Sprintf("✅  Interval set to <b>%s</b>", FormatInterval(seconds))}, nil
}

func (c *Commands) Pause() (Reply, error) {
	if err := c.controls.SetPaused(true); err != nil {
		return Reply{}, err
	}
	slog.Info("Relay paused")
	return Reply{Text: "⏸  Bot paused. Posts will not be sent until /resume."}, nil
}

func (c *Commands) Resume() (Reply, error) {
	if err := c.controls.SetPaused(false); err != nil {
		return Reply{}, err
	}
	slog.Info("Relay resumed")
	return Reply{Text: "▶️  Bot resumed! Next post in the scheduled interval."}, nil
}

func (c *Commands) Queue() (Reply, error) {
	state, err := c.controls.Load()
	if err != nil {
		return Reply{}, err
	}

	next := c.scheduler.NextRun()
	if next.IsZero() {
		next = c.now().Add(time.Duration(state.IntervalSeconds) * time.Second)
	}
	queueState := "▶️ Running"
	if state.Paused {
		queueState = "⏸ Paused"
	}

	text := "🗂  <b>Queue Status</b>\n" + rule + "\n\n" +
		fmt.Sprintf("<b>State       :</b> %s\n", queueState) +
		fmt.Sprintf("<b>Start msg   :</b> <code>%d</code>\n", state.StartMsgID) +
		fmt.Sprintf("<b>Current ptr :</b> <code>%d</code> (next to post)\n", state.CurrentMsgID) +
		fmt.Sprintf("<b>Interval    :</b> <code>%s</code>\n", FormatInterval(state.IntervalSeconds)) +
		fmt.Sprintf("<b>Next post ~ :</b> <code>%s</code>\n", next.UTC().Format("15:04:05 UTC"))

	return Reply{Text: text}, nil
}

func (c *Commands) SkipNext() (Reply, error) {
	skipped, err := c.controls.SkipNext()
	if errors.Is(err, tasks.ErrNoPointer) {
		return Reply{Text: noPointerText}, nil
	}
	if err != nil {
		return Reply{}, err
	}

	slog.Info("Skipped message", "msg_id", skipped)
	return Reply{Text: fmt.Sprintf("⏭  Skipped msg_id <code>%d</code>. Next post will be <code>%d</code>.", skipped, skipped+1)}, nil
}

// TestPost runs one tick right away and describes what happened.
func (c *Commands) TestPost(ctx context.Context) (Reply, error) {
	result, err := c.scheduler.TriggerNow(ctx)
	if err != nil && !errors.Is(err, tasks.ErrBusy) {
		return Reply{}, err
	}

	var text string
	switch result.Outcome {
	case tasks.OutcomePaused:
		text = "⏸  Bot is paused. Use /resume first."
	case tasks.OutcomeUnconfigured:
		text = "❓  Source or target channel not set."
	case tasks.OutcomeNoPointer:
		text = noPointerText
	case tasks.OutcomeBusy:
		text = "⏳  A post is already in progress, try again shortly."
	case tasks.OutcomeAlreadyPosted:
		text = fmt.Sprintf("⏭  msg_id <code>%d</code> was already posted. Next: <code>%d</code>.", result.MsgID, result.NextMsgID)
	case tasks.OutcomeFiltered:
		text = fmt.Sprintf("🚫  msg_id <code>%d</code> blocked by filter <code>%s</code>. Next: <code>%d</code>.", result.MsgID, html.EscapeString(result.Keyword), result.NextMsgID)
	case tasks.OutcomePublished:
		text = fmt.Sprintf("✅  Posted msg_id <code>%d</code> (%s). Next: <code>%d</code>.", result.MsgID, html.EscapeString(result.Publish.Provider), result.NextMsgID)
	case tasks.OutcomeNoMedia:
		text = fmt.Sprintf("⏭  msg_id <code>%d</code> has no media. Next: <code>%d</code>.", result.MsgID, result.NextMsgID)
	default:
		text = fmt.Sprintf("❌  msg_id <code>%d</code> could not be posted. Next: <code>%d</code>.", result.MsgID, result.NextMsgID)
	}

	return Reply{Text: text}, nil
}

func (c *Commands) SetTag(arg string) (Reply, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Reply{Text: "Usage: /settag ⚡ Powered by @MyChannel"}, nil
	}
	if err := c.controls.SetCustomTag(arg); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("✅  Footer tag set:\n<b>%s</b>", html.EscapeString(arg))}, nil
}

func (c *Commands) ClearTag() (Reply, error) {
	if err := c.controls.SetCustomTag(""); err != nil {
		return Reply{}, err
	}
	return Reply{Text: "🗑  Footer tag cleared."}, nil
}

func (c *Commands) AddTag(arg string) (Reply, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Reply{Text: "Usage: /addtag &lt;text&gt;"}, nil
	}
	if _, err := c.controls.AddExtraTag(arg); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("✅  Tag added: <b>%s</b>", html.EscapeString(arg))}, nil
}

func (c *Commands) RemoveTag(arg string) (Reply, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Reply{Text: "Usage: /removetag &lt;text&gt;"}, nil
	}
	removed, err := c.controls.RemoveExtraTag(arg)
	if err != nil {
		return Reply{}, err
	}
	if !removed {
		return Reply{Text: fmt.Sprintf("❓  No tag <code>%s</code>.", html.EscapeString(arg))}, nil
	}
	return Reply{Text: fmt.Sprintf("🗑  Tag removed: <code>%s</code>", html.EscapeString(arg))}, nil
}

func (c *Commands) Tags() (Reply, error) {
	state, err := c.controls.Load()
	if err != nil {
		return Reply{}, err
	}

	custom := "<i>none</i>"
	if state.CustomTag != "" {
		custom = html.EscapeString(state.CustomTag)
	}
	extra := "  <i>none</i>"
	if len(state.ExtraTags) > 0 {
		lines := make([]string, len(state.ExtraTags))
		for i, t := range state.ExtraTags {
			lines[i] = fmt.Sprintf("  %d. %s", i+1, html.EscapeString(t))
		}
		extra = strings.Join(lines, "\n")
	}

	return Reply{Text: "🏷  <b>Current Tags</b>\n\n" +
		fmt.Sprintf("<b>Footer tag :</b> %s\n\n", custom) +
		fmt.Sprintf("<b>Extra tags :</b>\n%s", extra)}, nil
}

func parseUserID(arg string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func (c *Commands) AddAdmin(arg string) (Reply, error) {
	uid, ok := parseUserID(arg)
	if !ok {
		return Reply{Text: "Usage: /addadmin &lt;user_id&gt;"}, nil
	}
	if err := c.admins.AddAdmin(uid); err != nil {
		return Reply{}, err
	}
	slog.Info("Admin added", "user_id", uid)
	return Reply{Text: fmt.Sprintf("✅  <code>%d</code> is now an admin.", uid)}, nil
}

func (c *Commands) RemoveAdmin(arg string) (Reply, error) {
	uid, ok := parseUserID(arg)
	if !ok {
		return Reply{Text: "Usage: /removeadmin &lt;user_id&gt;"}, nil
	}
	if err := c.admins.RemoveAdmin(uid); err != nil {
		return Reply{}, err
	}
	slog.Info("Admin removed", "user_id", uid)
	return Reply{Text: fmt.Sprintf("🗑  <code>%d</code> removed from admins.", uid)}, nil
}

func (c *Commands) Admins() (Reply, error) {
	all, err := c.guard.All()
	if err != nil {
		return Reply{}, err
	}

	lines := make([]string, len(all))
	for i, uid := range all {
		lines[i] = fmt.Sprintf("  • <code>%d</code>", uid)
	}
	return Reply{Text: "👑  <b>Admins</b>\n" + strings.Join(lines, "\n")}, nil
}

func (c *Commands) AddFilter(arg string) (Reply, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Reply{Text: "Usage: /addfilter &lt;keyword&gt;"}, nil
	}
	if err := c.controls.AddFilter(arg); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("✅  Filter added: <code>%s</code>", html.EscapeString(strings.ToLower(arg)))}, nil
}

func (c *Commands) RemoveFilter(arg string) (Reply, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return Reply{Text: "Usage: /removefilter &lt;keyword&gt;"}, nil
	}
	if err := c.controls.RemoveFilter(arg); err != nil {
		return Reply{}, err
	}
	return Reply{Text: fmt.Sprintf("🗑  Filter removed: <code>%s</code>", html.EscapeString(strings.ToLower(arg)))}, nil
}

func (c *Commands) Filters() (Reply, error) {
	keywords, err := c.controls.Filters()
	if err != nil {
		return Reply{}, err
	}
	if len(keywords) == 0 {
		return Reply{Text: "🚫  <b>Filters</b>\n  <i>none</i>"}, nil
	}

	lines := make([]string, len(keywords))
	for i, kw := range keywords {
		lines[i] = fmt.Sprintf("  • <code>%s</code>", html.EscapeString(kw))
	}
	return Reply{Text: "🚫  <b>Filters</b>\n" + strings.Join(lines, "\n")}, nil
}

// Recaption queues a caption rebuild for a source message that was already
// published. Accepts a message id in the current source or a t.me/c/ link.
func (c *Commands) Recaption(arg string) (Reply, error) {
	arg = strings.TrimSpace(arg)
	usage := Reply{Text: "Usage: /recaption &lt;msg_id&gt; or a t.me/c/ link"}
	if arg == "" {
		return usage, nil
	}

	var chat, msgID int64
	if strings.Contains(arg, "t.me") {
		var err error
		if chat, msgID, err = ParseTMeLink(arg); err != nil {
			if text := chatUsage(err); text != "" {
				return Reply{Text: text}, nil
			}
			return usage, nil
		}
	} else {
		id, ok := parseUserID(arg)
		if !ok || id < 0 {
			return usage, nil
		}
		state, err := c.controls.Load()
		if err != nil {
			return Reply{}, err
		}
		chat, msgID = state.SourceChat, id
	}

	if err := c.scheduler.EnqueueTask(tasks.NewRecaptionTask(chat, msgID, c.controls, c.publisher)); err != nil {
		return Reply{}, fmt.Errorf("failed to queue recaption: %w", err)
	}
	return Reply{Text: fmt.Sprintf("🔁  Caption refresh queued for msg_id <code>%d</code>.", msgID)}, nil
}
