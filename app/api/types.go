package api

import (
	"github.com/lysyi3m/media-relay/app/database"
	"github.com/lysyi3m/media-relay/app/tasks"
)

type Handler struct {
	controls  *tasks.Controls
	posts     database.PostRepository
	scheduler tasks.TaskSchedulerInterface
	version   string
}

type intervalRequest struct {
	Interval string `json:"interval" binding:"required"`
}

type keywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

type tagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

type customTagRequest struct {
	Tag string `json:"tag"`
}
