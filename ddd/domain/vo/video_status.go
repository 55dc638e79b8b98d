package vo

import "fmt"

// VideoStatus 视频处理状态
type VideoStatus string

const (
	// VideoStatusUploaded 已上传，尚未处理
	VideoStatusUploaded VideoStatus = "uploaded"
	// VideoStatusProcessing 处理中
	VideoStatusProcessing VideoStatus = "processing"
	// VideoStatusCompleted 处理完成
	VideoStatusCompleted VideoStatus = "completed"
	// VideoStatusFailed 处理失败
	VideoStatusFailed VideoStatus = "failed"
)

// NewVideoStatusFromString parses a persisted status.
func NewVideoStatusFromString(s string) (VideoStatus, error) {
	st := VideoStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid video status %q", s)
	}
	return st, nil
}

// IsValid 检查状态是否有效
func (s VideoStatus) IsValid() bool {
	switch s {
	case VideoStatusUploaded, VideoStatusProcessing, VideoStatusCompleted, VideoStatusFailed:
		return true
	default:
		return false
	}
}

func (s VideoStatus) String() string {
	return string(s)
}

// IsFinalStatus reports whether a run has ended.
func (s VideoStatus) IsFinalStatus() bool {
	return s == VideoStatusCompleted || s == VideoStatusFailed
}

// CanTransitionTo 检查是否可以转换到目标状态。终态可以重新进入处理。
func (s VideoStatus) CanTransitionTo(target VideoStatus) bool {
	switch s {
	case VideoStatusUploaded, VideoStatusCompleted, VideoStatusFailed:
		return target == VideoStatusProcessing
	case VideoStatusProcessing:
		return target == VideoStatusCompleted || target == VideoStatusFailed
	default:
		return false
	}
}
