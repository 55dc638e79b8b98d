package dto

import (
	"time"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/vo"
)

// VideoDTO 视频数据传输对象
type VideoDTO struct {
	ID                string               `json:"id"`
	UserID            string               `json:"user_id"`
	Filename          string               `json:"filename"`
	Filepath          string               `json:"filepath"`
	Size              int64                `json:"size"`
	Status            string               `json:"status"`
	UploadDate        time.Time            `json:"upload_date"`
	ProcessStartTime  *time.Time           `json:"process_start_time"`
	ProcessEndTime    *time.Time           `json:"process_end_time"`
	Error             *string              `json:"error"`
	ProcessingOptions vo.ProcessingOptions `json:"processing_options"`
	Metadata          vo.VideoMetadata     `json:"metadata"`
	Outputs           vo.Outputs           `json:"outputs"`
}

func NewVideoDTO(v *entity.VideoEntity) *VideoDTO {
	d := &VideoDTO{
		ID:                v.ID(),
		UserID:            v.UserID(),
		Filename:          v.Filename(),
		Filepath:          v.Filepath(),
		Size:              v.Size(),
		Status:            v.Status().String(),
		UploadDate:        v.UploadDate(),
		ProcessStartTime:  v.ProcessStartTime(),
		ProcessEndTime:    v.ProcessEndTime(),
		ProcessingOptions: v.ProcessingOptions(),
		Metadata:          v.Metadata(),
		Outputs:           v.Outputs(),
	}
	if msg := v.ErrorMessage(); msg != "" {
		d.Error = &msg
	}
	return d
}

func NewVideoDTOs(list []*entity.VideoEntity) []*VideoDTO {
	out := make([]*VideoDTO, 0, len(list))
	for _, v := range list {
		out = append(out, NewVideoDTO(v))
	}
	return out
}

// UploadResultDTO 上传结果
type UploadResultDTO struct {
	VideoID string    `json:"video_id"`
	Message string    `json:"message"`
	Video   *VideoDTO `json:"video"`
}

// SubtitlesDTO 字幕结构化数据
type SubtitlesDTO struct {
	VideoID  string               `json:"video_id"`
	Language string               `json:"language"`
	Style    string               `json:"style"`
	Origin   string               `json:"origin,omitempty"`
	Segments []vo.SubtitleSegment `json:"segments"`
}

// FileDTO is a downloadable artifact.
type FileDTO struct {
	Name        string
	ContentType string
	Content     []byte
}
