package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/publisher"
)

// ErrBusy is returned when a tick for the same source and target is already running.
var ErrBusy = errors.New("a tick is already running for this channel pair")

type Outcome string

const (
	OutcomePaused        Outcome = "paused"
	OutcomeUnconfigured  Outcome = "unconfigured"
	OutcomeNoPointer     Outcome = "no_pointer"
	OutcomeBusy          Outcome = "busy"
	OutcomeAlreadyPosted Outcome = "already_posted"
	OutcomeFiltered      Outcome = "filtered"
	OutcomePublished     Outcome = "published"
	OutcomeNoMedia       Outcome = "no_media"
	OutcomeFailed        Outcome = "failed"
)

type TickResult struct {
	Outcome   Outcome
	MsgID     int64
	NextMsgID int64
	Keyword   string
	Publish   publisher.Result
}

// Advanced reports whether the tick moved the pointer.
func (r TickResult) Advanced() bool {
	return r.NextMsgID > r.MsgID
}

type pairKey struct {
	source int64
	target int64
}

// Poster publishes the message under the pointer, one message per tick.
type Poster struct {
	controls  *Controls
	posts     database.PostRepository
	publisher Publisher
	filterer  *Filterer

	mu      sync.Mutex
	running map[pairKey]bool
}

func NewPoster(controls *Controls, posts database.PostRepository, pub Publisher) *Poster {
	return &Poster{
		controls:  controls,
		posts:     posts,
		publisher: pub,
		filterer:  NewFilterer(),
		running:   make(map[pairKey]bool),
	}
}

func (p *Poster) acquire(key pairKey) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running[key] {
		return false
	}
	p.running[key] = true
	return true
}

func (p *Poster) release(key pairKey) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.running, key)
}

// Tick runs one step of the pointer state machine. Every resolved attempt
// advances the pointer by exactly one; store read errors and busy ticks do not.
func (p *Poster) Tick(ctx context.Context) (TickResult, error) {
	state, err := p.controls.Load()
	if err != nil {
		return TickResult{}, fmt.Errorf("failed to load state: %w", err)
	}

	if state.Paused {
		slog.Debug("Relay paused, skipping tick")
		return TickResult{Outcome: OutcomePaused}, nil
	}
	if !state.Configured() {
		slog.Warn("Source or target channel not set, skipping tick", "source", state.SourceChat, "target", state.TargetChat)
		return TickResult{Outcome: OutcomeUnconfigured}, nil
	}

	key := pairKey{source: state.SourceChat, target: state.TargetChat}
	if !p.acquire(key) {
		slog.Debug("Tick already running, skipping", "source", key.source, "target", key.target)
		return TickResult{Outcome: OutcomeBusy}, ErrBusy
	}
	defer p.release(key)

	// re-read under the guard so a tick that waited on the previous one sees its advance
	ptr, err := p.controls.settings.GetInt(KeyCurrentMsgID, 0)
	if err != nil {
		return TickResult{}, fmt.Errorf("failed to read pointer: %w", err)
	}
	if ptr <= 0 {
		slog.Info("No start message set, skipping tick")
		return TickResult{Outcome: OutcomeNoPointer}, nil
	}

	result := TickResult{MsgID: ptr}

	posted, err := p.posts.WasPosted(state.SourceChat, ptr)
	if err != nil {
		return result, fmt.Errorf("failed to check post log: %w", err)
	}
	if posted {
		slog.Info("Message already posted, advancing pointer", "source", state.SourceChat, "msg_id", ptr)
		result.Outcome = OutcomeAlreadyPosted
		return p.advance(result)
	}

	opts := state.PublishOptions()

	insp, err := p.publisher.Inspect(ctx, state.SourceChat, ptr, state.TargetChat)
	if err != nil {
		slog.Warn("Could not inspect message, copying without filter check", "source", state.SourceChat, "msg_id", ptr, "error", err)
		res, pubErr := p.publisher.CopyPlain(ctx, state.SourceChat, ptr, opts)
		return p.finish(result, res, pubErr)
	}
	defer insp.Release(ctx)

	if blocked, keyword := p.filterer.Run(insp.Message, state.Filters); blocked {
		slog.Info("Message blocked by keyword filter", "source", state.SourceChat, "msg_id", ptr, "keyword", keyword)
		result.Outcome = OutcomeFiltered
		result.Keyword = keyword
		return p.advance(result)
	}

	res, pubErr := p.publisher.PublishInspected(ctx, insp, opts)
	return p.finish(result, res, pubErr)
}

func (p *Poster) finish(result TickResult, res publisher.Result, pubErr error) (TickResult, error) {
	result.Publish = res

	switch {
	case pubErr != nil:
		result.Outcome = OutcomeFailed
		slog.Error("Publish failed, advancing pointer anyway", "msg_id", result.MsgID, "run_id", res.RunID, "error", pubErr)
	case res.Status == publisher.StatusNoMedia:
		result.Outcome = OutcomeNoMedia
		slog.Info("Message has no media, advancing pointer", "msg_id", result.MsgID)
	default:
		result.Outcome = OutcomePublished
	}

	result, err := p.advance(result)
	if err != nil {
		return result, err
	}
	if pubErr != nil {
		return result, fmt.Errorf("failed to publish message %d: %w", result.MsgID, pubErr)
	}
	return result, nil
}

func (p *Poster) advance(result TickResult) (TickResult, error) {
	next, err := p.controls.Advance(result.MsgID)
	if err != nil {
		return result, fmt.Errorf("failed to advance pointer: %w", err)
	}
	result.NextMsgID = next
	return result, nil
}
