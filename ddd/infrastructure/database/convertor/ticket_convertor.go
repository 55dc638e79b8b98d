package convertor

import (
	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/database/po"
)

// TicketConvertor 工单实体与PO转换
type TicketConvertor struct{}

func NewTicketConvertor() *TicketConvertor {
	return &TicketConvertor{}
}

func (c *TicketConvertor) ToEntity(p *po.SupportTicket) *entity.TicketEntity {
	return entity.NewTicketEntityWithDetails(
		p.TicketUUID,
		p.UserUUID,
		p.Name,
		p.Email,
		p.Subject,
		p.Description,
		vo.TicketPriority(p.Priority),
		vo.TicketType(p.Type),
		vo.TicketStatus(p.Status),
		p.Responses.Data,
		p.CreatedAt,
		p.UpdatedAt,
	)
}

func (c *TicketConvertor) ToPO(e *entity.TicketEntity) *po.SupportTicket {
	return &po.SupportTicket{
		BaseModel: po.BaseModel{
			CreatedAt: e.CreatedAt(),
			UpdatedAt: e.UpdatedAt(),
		},
		TicketUUID:  e.ID(),
		UserUUID:    e.UserID(),
		Name:        e.Name(),
		Email:       e.Email(),
		Subject:     e.Subject(),
		Description: e.Description(),
		Priority:    string(e.Priority()),
		Type:        string(e.Type()),
		Status:      string(e.Status()),
		Responses:   po.NewJSONColumn(e.Responses()),
	}
}

func (c *TicketConvertor) ToEntities(list []*po.SupportTicket) []*entity.TicketEntity {
	out := make([]*entity.TicketEntity, 0, len(list))
	for _, p := range list {
		out = append(out, c.ToEntity(p))
	}
	return out
}
