package convertor

import (
	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/database/po"
)

// VideoConvertor 视频实体与PO转换
type VideoConvertor struct{}

func NewVideoConvertor() *VideoConvertor {
	return &VideoConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *VideoConvertor) ToEntity(p *po.Video) *entity.VideoEntity {
	status, err := vo.NewVideoStatusFromString(p.Status)
	if err != nil {
		status = vo.VideoStatusUploaded
	}
	return entity.NewVideoEntityWithDetails(
		p.VideoUUID,
		p.UserUUID,
		p.Filename,
		p.Filepath,
		p.Size,
		status,
		p.Options.Data,
		p.UploadDate,
		p.ProcessStartTime,
		p.ProcessEndTime,
		p.ErrorMessage,
		p.Metadata.Data,
		p.Outputs.Data,
	)
}

// ToPO 将Entity转换为PO
func (c *VideoConvertor) ToPO(e *entity.VideoEntity) *po.Video {
	var errMsg *string
	if msg := e.ErrorMessage(); msg != "" {
		errMsg = &msg
	}
	return &po.Video{
		VideoUUID:        e.ID(),
		UserUUID:         e.UserID(),
		Filename:         e.Filename(),
		Filepath:         e.Filepath(),
		Size:             e.Size(),
		Status:           e.Status().String(),
		Options:          po.NewJSONColumn(e.ProcessingOptions()),
		UploadDate:       e.UploadDate(),
		ProcessStartTime: e.ProcessStartTime(),
		ProcessEndTime:   e.ProcessEndTime(),
		ErrorMessage:     errMsg,
		Metadata:         po.NewJSONColumn(e.Metadata()),
		Outputs:          po.NewJSONColumn(e.Outputs()),
	}
}

// ToEntities 批量转换
func (c *VideoConvertor) ToEntities(list []*po.Video) []*entity.VideoEntity {
	out := make([]*entity.VideoEntity, 0, len(list))
	for _, p := range list {
		out = append(out, c.ToEntity(p))
	}
	return out
}
