package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/media-relay/app/bot"
	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/tasks"
)

func NewHandler(controls *tasks.Controls, posts database.PostRepository,
	scheduler tasks.TaskSchedulerInterface, version string) *Handler {
	return &Handler{
		controls:  controls,
		posts:     posts,
		scheduler: scheduler,
		version:   version,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   h.version,
	}

	if next := h.scheduler.NextRun(); !next.IsZero() {
		health["next_run_at"] = next.Format(time.RFC3339)
	}

	state, err := h.controls.Load()
	if err != nil {
		slog.Error("Database error", "operation", "load_state", "error", err)
		health["status"] = "degraded"
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	health["paused"] = state.Paused

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	state, err := h.controls.Load()
	if err != nil {
		slog.Error("Database error", "operation", "load_state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.posts.TotalPosted()
	if err != nil {
		slog.Error("Database error", "operation", "total_posted", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	stats := map[string]interface{}{
		"total_posted":     total,
		"interval_seconds": state.IntervalSeconds,
		"interval":         bot.FormatInterval(state.IntervalSeconds),
	}

	if recent, err := h.posts.CountPostedSince(time.Now().Add(-24 * time.Hour)); err == nil {
		stats["posted_24h"] = recent
	}
	if last, err := h.posts.LastPostTime(); err == nil && last != nil {
		stats["last_post_at"] = last.Format(time.RFC3339)
	}

	var daily int64
	if total > 0 && state.IntervalSeconds > 0 {
		daily = 86400 / state.IntervalSeconds
	}
	stats["estimated_per_day"] = daily
	stats["estimated_per_week"] = daily * 7

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIGetStatus(c *gin.Context) {
	state, err := h.controls.Load()
	if err != nil {
		slog.Error("Database error", "operation", "load_state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	status := map[string]interface{}{
		"paused":           state.Paused,
		"source_channel":   state.SourceChat,
		"target_channel":   state.TargetChat,
		"start_msg_id":     state.StartMsgID,
		"current_msg_id":   state.CurrentMsgID,
		"interval_seconds": state.IntervalSeconds,
		"interval":         bot.FormatInterval(state.IntervalSeconds),
		"custom_tag":       state.CustomTag,
		"extra_tags":       nonNil(state.ExtraTags),
		"filters":          nonNil(state.Filters),
		"channel_username": state.ChannelName,
		"channel_link":     state.ChannelLink,
	}
	if next := h.scheduler.NextRun(); !next.IsZero() {
		status["next_run_at"] = next.Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) APIPause(c *gin.Context) {
	h.setPaused(c, true)
}

func (h *Handler) APIResume(c *gin.Context) {
	h.setPaused(c, false)
}

func (h *Handler) setPaused(c *gin.Context, paused bool) {
	if err := h.controls.SetPaused(paused); err != nil {
		slog.Error("Database error", "operation", "set_paused", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.Info("Pause state changed via API", "paused", paused)
	c.JSON(http.StatusOK, gin.H{"success": true, "paused": paused})
}

func (h *Handler) APISkip(c *gin.Context) {
	skipped, err := h.controls.SkipNext()
	if errors.Is(err, tasks.ErrNoPointer) {
		c.JSON(http.StatusConflict, gin.H{"error": "No start message set"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "skip_next", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "skipped": skipped, "next_msg_id": skipped + 1})
}

func (h *Handler) APITestPost(c *gin.Context) {
	result, err := h.scheduler.TriggerNow(c.Request.Context())
	if err != nil && !errors.Is(err, tasks.ErrBusy) {
		slog.Error("Forced tick failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Tick failed",
			"details": err.Error(),
		})
		return
	}

	response := gin.H{
		"outcome":     result.Outcome,
		"msg_id":      result.MsgID,
		"next_msg_id": result.NextMsgID,
	}
	if result.Keyword != "" {
		response["keyword"] = result.Keyword
	}
	if result.Publish.RunID != "" {
		response["run_id"] = result.Publish.RunID
		response["status"] = result.Publish.Status
		response["provider"] = result.Publish.Provider
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) APISetInterval(c *gin.Context) {
	var req intervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing interval"})
		return
	}

	seconds, ok := bot.ParseInterval(req.Interval)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":        "Could not parse interval",
			"interval":     req.Interval,
			"max_interval": bot.FormatInterval(tasks.MaxIntervalSeconds),
		})
		return
	}

	if err := h.scheduler.Reschedule(time.Duration(seconds) * time.Second); err != nil {
		slog.Error("Reschedule failed", "seconds", seconds, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reschedule", "details": err.Error()})
		return
	}
	if err := h.controls.SetInterval(seconds); err != nil {
		slog.Error("Database error", "operation", "set_interval", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"interval_seconds": seconds,
		"interval":         bot.FormatInterval(seconds),
	})
}

func (h *Handler) APIListFilters(c *gin.Context) {
	keywords, err := h.controls.Filters()
	if err != nil {
		slog.Error("Database error", "operation", "list_filters", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"filters": nonNil(keywords), "total": len(keywords)})
}

func (h *Handler) APIAddFilter(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing keyword"})
		return
	}

	if err := h.controls.AddFilter(req.Keyword); err != nil {
		slog.Error("Failed to add filter", "keyword", req.Keyword, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.APIListFilters(c)
}

func (h *Handler) APIRemoveFilter(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing keyword"})
		return
	}

	if err := h.controls.RemoveFilter(req.Keyword); err != nil {
		slog.Error("Database error", "operation", "remove_filter", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.APIListFilters(c)
}

func (h *Handler) APIListTags(c *gin.Context) {
	state, err := h.controls.Load()
	if err != nil {
		slog.Error("Database error", "operation", "load_state", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"custom_tag": state.CustomTag,
		"extra_tags": nonNil(state.ExtraTags),
	})
}

func (h *Handler) APIAddTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tag"})
		return
	}

	if _, err := h.controls.AddExtraTag(req.Tag); err != nil {
		slog.Error("Failed to add tag", "tag", req.Tag, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.APIListTags(c)
}

func (h *Handler) APIRemoveTag(c *gin.Context) {
	var req tagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing tag"})
		return
	}

	removed, err := h.controls.RemoveExtraTag(req.Tag)
	if err != nil {
		slog.Error("Database error", "operation", "remove_tag", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
		return
	}

	h.APIListTags(c)
}

// APISetCustomTag replaces the footer tag; an empty tag clears it.
func (h *Handler) APISetCustomTag(c *gin.Context) {
	var req customTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.controls.SetCustomTag(req.Tag); err != nil {
		slog.Error("Database error", "operation", "set_custom_tag", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	h.APIListTags(c)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
