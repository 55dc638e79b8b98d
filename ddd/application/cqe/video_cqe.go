package cqe

import (
	"io"
	"strings"

	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/errno"
)

// UploadVideoCqe 上传视频命令
type UploadVideoCqe struct {
	UserID   string
	Filename string
	// Size is the size the client declared; the stored size is what was actually read.
	Size    int64
	Content io.Reader
}

func (c *UploadVideoCqe) Validate(maxBytes int64) error {
	if c.UserID == "" {
		return errno.ErrUnauthorized
	}
	if c.Content == nil || strings.TrimSpace(c.Filename) == "" {
		return errno.ErrMissingParam
	}
	if maxBytes > 0 && c.Size > maxBytes {
		return errno.ErrFileSizeIllegal
	}
	return nil
}

// ProcessVideoCqe 处理请求，body 形如 {"options": {...}}
type ProcessVideoCqe struct {
	UserID  string               `json:"-"`
	VideoID string               `json:"-"`
	Options vo.ProcessingOptions `json:"options"`
}

// SubtitleFormat is the download format of a subtitle track.
type SubtitleFormat string

const (
	SubtitleFormatSRT  SubtitleFormat = "srt"
	SubtitleFormatJSON SubtitleFormat = "json"
)

// ParseSubtitleFormat defaults to srt.
func ParseSubtitleFormat(s string) (SubtitleFormat, error) {
	switch f := SubtitleFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return SubtitleFormatSRT, nil
	case SubtitleFormatSRT, SubtitleFormatJSON:
		return f, nil
	default:
		return "", errno.ErrUnsupportedFormat
	}
}
