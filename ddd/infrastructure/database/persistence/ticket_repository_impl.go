package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/repo"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/database/convertor"
	"snipx-service/ddd/infrastructure/database/dao"
)

type ticketRepositoryImpl struct {
	ticketDao *dao.TicketDAO
	convertor *convertor.TicketConvertor
}

func NewTicketRepository(db *gorm.DB) repo.TicketRepository {
	return &ticketRepositoryImpl{
		ticketDao: dao.NewTicketDAO(db),
		convertor: convertor.NewTicketConvertor(),
	}
}

func (r *ticketRepositoryImpl) Create(ctx context.Context, ticket *entity.TicketEntity) error {
	if ticket.ID() == "" {
		ticket.SetID(uuid.New().String())
	}
	return r.ticketDao.Create(ctx, r.convertor.ToPO(ticket))
}

func (r *ticketRepositoryImpl) Get(ctx context.Context, id string) (*entity.TicketEntity, error) {
	p, err := r.ticketDao.FindByUUID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return r.convertor.ToEntity(p), nil
}

func (r *ticketRepositoryImpl) Update(ctx context.Context, ticket *entity.TicketEntity) error {
	return r.ticketDao.Update(ctx, r.convertor.ToPO(ticket))
}

func (r *ticketRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]*entity.TicketEntity, error) {
	list, err := r.ticketDao.QueryByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(list), nil
}

func (r *ticketRepositoryImpl) List(ctx context.Context, filter repo.TicketFilter) ([]*entity.TicketEntity, error) {
	list, err := r.ticketDao.Query(ctx, string(filter.Status), string(filter.Priority))
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(list), nil
}

func (r *ticketRepositoryImpl) CountByStatus(ctx context.Context) (map[vo.TicketStatus]int64, error) {
	rows, err := r.ticketDao.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[vo.TicketStatus]int64, len(vo.TicketStatuses))
	for _, s := range vo.TicketStatuses {
		counts[s] = 0
	}
	for _, row := range rows {
		st := vo.TicketStatus(row.Status)
		if st.IsValid() {
			counts[st] = row.Count
		}
	}
	return counts, nil
}
