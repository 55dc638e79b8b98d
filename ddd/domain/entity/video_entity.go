package entity

import (
	"fmt"
	"time"

	"snipx-service/ddd/domain/vo"
)

// VideoEntity 视频实体：上传记录、最近一次处理的状态与产物
type VideoEntity struct {
	id               string
	userID           string
	filename         string
	filepath         string
	size             int64
	status           vo.VideoStatus
	options          vo.ProcessingOptions
	uploadDate       time.Time
	processStartTime *time.Time
	processEndTime   *time.Time
	errorMessage     *string
	metadata         vo.VideoMetadata
	outputs          vo.Outputs
}

// NewVideoEntity 创建刚上传的视频实体，ID 由存储层分配
func NewVideoEntity(userID, filename, filepath string, size int64, metadata vo.VideoMetadata) *VideoEntity {
	return &VideoEntity{
		userID:     userID,
		filename:   filename,
		filepath:   filepath,
		size:       size,
		status:     vo.VideoStatusUploaded,
		uploadDate: time.Now(),
		metadata:   metadata,
	}
}

// NewVideoEntityWithDetails 从持久化数据重建实体
func NewVideoEntityWithDetails(
	id, userID, filename, filepath string, size int64,
	status vo.VideoStatus, options vo.ProcessingOptions,
	uploadDate time.Time, processStartTime, processEndTime *time.Time,
	errorMessage *string, metadata vo.VideoMetadata, outputs vo.Outputs,
) *VideoEntity {
	return &VideoEntity{
		id:               id,
		userID:           userID,
		filename:         filename,
		filepath:         filepath,
		size:             size,
		status:           status,
		options:          options,
		uploadDate:       uploadDate,
		processStartTime: processStartTime,
		processEndTime:   processEndTime,
		errorMessage:     errorMessage,
		metadata:         metadata,
		outputs:          outputs,
	}
}

func (v *VideoEntity) ID() string { return v.id }

// SetID 设置存储层分配的ID
func (v *VideoEntity) SetID(id string) { v.id = id }

func (v *VideoEntity) UserID() string { return v.userID }
func (v *VideoEntity) Filename() string { return v.filename }
func (v *VideoEntity) Filepath() string { return v.filepath }
func (v *VideoEntity) Size() int64 { return v.size }

func (v *VideoEntity) Status() vo.VideoStatus { return v.status }
func (v *VideoEntity) ProcessingOptions() vo.ProcessingOptions { return v.options }
func (v *VideoEntity) UploadDate() time.Time { return v.uploadDate }
func (v *VideoEntity) ProcessStartTime() *time.Time { return v.processStartTime }
func (v *VideoEntity) ProcessEndTime() *time.Time { return v.processEndTime }
func (v *VideoEntity) Metadata() vo.VideoMetadata { return v.metadata }

// ErrorMessage 返回失败原因，未失败时为空
func (v *VideoEntity) ErrorMessage() string {
	if v.errorMessage == nil {
		return ""
	}
	return *v.errorMessage
}

// Outputs 返回产物快照
func (v *VideoEntity) Outputs() vo.Outputs { return v.outputs }

// IsOwnedBy 检查视频归属
func (v *VideoEntity) IsOwnedBy(userID string) bool {
	return v.userID != "" && v.userID == userID
}

// StartProcessing 进入 processing：记录选项快照，清除上次错误和结束时间。
func (v *VideoEntity) StartProcessing(options vo.ProcessingOptions, now time.Time) error {
	if !v.status.CanTransitionTo(vo.VideoStatusProcessing) {
		return NewDomainError(ErrCodeInvalidTransition,
			fmt.Sprintf("video %s cannot start processing from %s", v.id, v.status))
	}
	v.status = vo.VideoStatusProcessing
	v.options = options
	start := now
	v.processStartTime = &start
	v.processEndTime = nil
	v.errorMessage = nil
	return nil
}

// Complete 处理成功
func (v *VideoEntity) Complete(now time.Time) error {
	return v.finish(vo.VideoStatusCompleted, nil, now)
}

// Fail 处理失败，msg 写入 error 字段
func (v *VideoEntity) Fail(msg string, now time.Time) error {
	return v.finish(vo.VideoStatusFailed, &msg, now)
}

func (v *VideoEntity) finish(target vo.VideoStatus, msg *string, now time.Time) error {
	if !v.status.CanTransitionTo(target) {
		return NewDomainError(ErrCodeInvalidTransition,
			fmt.Sprintf("video %s cannot move from %s to %s", v.id, v.status, target))
	}
	v.status = target
	end := now
	v.processEndTime = &end
	v.errorMessage = msg
	return nil
}

// ApplyArtifact 写入某个产物槽位，其他槽位保持不变
func (v *VideoEntity) ApplyArtifact(a vo.Artifact) {
	v.outputs.Apply(a)
}

// AllPaths lists the source file and every recorded artifact file.
func (v *VideoEntity) AllPaths() []string {
	return append([]string{v.filepath}, v.outputs.Paths()...)
}
