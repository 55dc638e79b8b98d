package repo

import (
	"context"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/vo"
)

// TicketFilter narrows the admin ticket listing. Empty fields match everything.
type TicketFilter struct {
	Status   vo.TicketStatus
	Priority vo.TicketPriority
}

// TicketRepository 工单仓储接口
type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.TicketEntity) error
	Get(ctx context.Context, id string) (*entity.TicketEntity, error)
	Update(ctx context.Context, ticket *entity.TicketEntity) error
	ListByUser(ctx context.Context, userID string) ([]*entity.TicketEntity, error)
	List(ctx context.Context, filter TicketFilter) ([]*entity.TicketEntity, error)
	// CountByStatus returns the number of tickets per status.
	CountByStatus(ctx context.Context) (map[vo.TicketStatus]int64, error)
}
