package po

import (
	"time"

	"snipx-service/ddd/domain/vo"
)

// Video 视频记录持久化对象
type Video struct {
	BaseModel
	VideoUUID        string                           `gorm:"column:video_uuid;type:varchar(36);uniqueIndex" json:"video_uuid"`
	UserUUID         string                           `gorm:"column:user_uuid;type:varchar(36);index" json:"user_uuid"`
	Filename         string                           `gorm:"column:filename;type:varchar(255)" json:"filename"`
	Filepath         string                           `gorm:"column:filepath;type:varchar(1024)" json:"filepath"`
	Size             int64                            `gorm:"column:size;type:bigint" json:"size"`
	Status           string                           `gorm:"column:status;type:varchar(20);index" json:"status"`
	Options          JSONColumn[vo.ProcessingOptions] `gorm:"column:processing_options;type:text" json:"processing_options"`
	UploadDate       time.Time                        `gorm:"column:upload_date;index" json:"upload_date"`
	ProcessStartTime *time.Time                       `gorm:"column:process_start_time" json:"process_start_time,omitempty"`
	ProcessEndTime   *time.Time                       `gorm:"column:process_end_time" json:"process_end_time,omitempty"`
	ErrorMessage     *string                          `gorm:"column:error;type:text" json:"error,omitempty"`
	Metadata         JSONColumn[vo.VideoMetadata]     `gorm:"column:metadata;type:text" json:"metadata"`
	Outputs          JSONColumn[vo.Outputs]           `gorm:"column:outputs;type:text" json:"outputs"`
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}
