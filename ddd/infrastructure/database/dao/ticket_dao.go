package dao

import (
	"context"

	"gorm.io/gorm"

	"snipx-service/ddd/infrastructure/database/po"
)

// TicketDAO 工单表访问
type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{db: db}
}

// StatusCount is one row of the per-status aggregate.
type StatusCount struct {
	Status string
	Count  int64
}

func (d *TicketDAO) Create(ctx context.Context, ticket *po.SupportTicket) error {
	return d.db.WithContext(ctx).Model(&po.SupportTicket{}).Create(ticket).Error
}

func (d *TicketDAO) FindByUUID(ctx context.Context, ticketUUID string) (*po.SupportTicket, error) {
	var ticket po.SupportTicket
	if err := d.db.WithContext(ctx).Where("ticket_uuid = ?", ticketUUID).First(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (d *TicketDAO) Update(ctx context.Context, ticket *po.SupportTicket) error {
	return d.db.WithContext(ctx).Model(&po.SupportTicket{}).
		Where("ticket_uuid = ?", ticket.TicketUUID).
		Select("*").Omit("id", "created_at", "ticket_uuid", "user_uuid").
		Updates(ticket).Error
}

func (d *TicketDAO) QueryByUser(ctx context.Context, userUUID string) ([]*po.SupportTicket, error) {
	var tickets []*po.SupportTicket
	err := d.db.WithContext(ctx).Where("user_uuid = ?", userUUID).Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

// Query 管理员列表，空条件不过滤
func (d *TicketDAO) Query(ctx context.Context, status, priority string) ([]*po.SupportTicket, error) {
	q := d.db.WithContext(ctx).Model(&po.SupportTicket{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if priority != "" {
		q = q.Where("priority = ?", priority)
	}
	var tickets []*po.SupportTicket
	err := q.Order("created_at DESC").Find(&tickets).Error
	return tickets, err
}

func (d *TicketDAO) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := d.db.WithContext(ctx).Model(&po.SupportTicket{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}
