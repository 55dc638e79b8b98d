package gateway

import (
	"context"
	"time"
)

const (
	EventVideoUploaded  = "video.uploaded"
	EventVideoProcessed = "video.processed"
	EventVideoDeleted   = "video.deleted"
)

// VideoEvent is published after a video record changes.
type VideoEvent struct {
	Type       string    `json:"type"`
	VideoID    string    `json:"video_id"`
	UserID     string    `json:"user_id"`
	Status     string    `json:"status,omitempty"`
	Error      string    `json:"error,omitempty"`
	Operations []string  `json:"operations,omitempty"`
	Outputs    []string  `json:"outputs,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher 事件发布网关
type EventPublisher interface {
	PublishVideoEvent(ctx context.Context, event VideoEvent) error
}
