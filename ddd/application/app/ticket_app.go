package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"snipx-service/ddd/application/cqe"
	"snipx-service/ddd/application/dto"
	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/repo"
	"snipx-service/ddd/domain/vo"
	"snipx-service/ddd/infrastructure/database/persistence"
	"snipx-service/internal/resource"
	"snipx-service/pkg/assert"
	"snipx-service/pkg/errno"
	"snipx-service/pkg/logger"
)

var (
	singleTicketApp TicketApp
	onceTicketApp   sync.Once
)

// Actor is the authenticated caller of a ticket operation.
type Actor struct {
	UserID  string
	Email   string
	IsAdmin bool
}

type TicketApp interface {
	CreateTicket(ctx context.Context, actor Actor, req *cqe.CreateTicketCqe) (*dto.TicketDTO, error)
	// GetTicket 工单所有者或管理员可见
	GetTicket(ctx context.Context, actor Actor, ticketID string) (*dto.TicketDTO, error)
	ListMyTickets(ctx context.Context, actor Actor) ([]*dto.TicketDTO, error)
	ListTickets(ctx context.Context, query *cqe.TicketQuery) ([]*dto.TicketDTO, error)
	UpdateStatus(ctx context.Context, actor Actor, ticketID string, req *cqe.UpdateTicketStatusCqe) (*dto.TicketDTO, error)
	AddResponse(ctx context.Context, actor Actor, ticketID string, req *cqe.AddTicketResponseCqe) (*dto.TicketDTO, error)
	Stats(ctx context.Context) (*dto.TicketStatsDTO, error)
}

type ticketAppImpl struct {
	tickets repo.TicketRepository
	now     func() time.Time
}

func DefaultTicketApp() TicketApp {
	assert.NotCircular()
	onceTicketApp.Do(func() {
		singleTicketApp = NewTicketAppWith(persistence.NewTicketRepository(resource.DefaultDatabaseResource().MainDB()), nil)
	})
	assert.NotNil(singleTicketApp)
	return singleTicketApp
}

func NewTicketAppWith(tickets repo.TicketRepository, clock func() time.Time) TicketApp {
	if clock == nil {
		clock = time.Now
	}
	return &ticketAppImpl{tickets: tickets, now: clock}
}

func (a *ticketAppImpl) CreateTicket(ctx context.Context, actor Actor, req *cqe.CreateTicketCqe) (*dto.TicketDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = actor.Email
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = email
	}
	ticket, err := entity.NewTicketEntity(actor.UserID, name, email, req.Subject, req.Description,
		vo.TicketPriority(req.Priority), vo.TicketType(req.Type))
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInvalidParam, err)
	}
	if err := a.tickets.Create(ctx, ticket); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	logger.Infof("Support ticket created ticket_id=%s user_id=%s priority=%s", ticket.ID(), actor.UserID, ticket.Priority())
	return dto.NewTicketDTO(ticket), nil
}

func (a *ticketAppImpl) GetTicket(ctx context.Context, actor Actor, ticketID string) (*dto.TicketDTO, error) {
	ticket, err := a.loadVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	return dto.NewTicketDTO(ticket), nil
}

func (a *ticketAppImpl) ListMyTickets(ctx context.Context, actor Actor) ([]*dto.TicketDTO, error) {
	list, err := a.tickets.ListByUser(ctx, actor.UserID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewTicketDTOs(list), nil
}

func (a *ticketAppImpl) ListTickets(ctx context.Context, query *cqe.TicketQuery) ([]*dto.TicketDTO, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	list, err := a.tickets.List(ctx, repo.TicketFilter{
		Status:   vo.TicketStatus(query.Status),
		Priority: vo.TicketPriority(query.Priority),
	})
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewTicketDTOs(list), nil
}

func (a *ticketAppImpl) UpdateStatus(ctx context.Context, actor Actor, ticketID string, req *cqe.UpdateTicketStatusCqe) (*dto.TicketDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ticket, err := a.loadVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if err := ticket.ChangeStatus(vo.TicketStatus(req.Status), actor.IsAdmin); err != nil {
		if entity.IsDomainError(err, entity.ErrCodePermission) {
			return nil, errno.NewBizError(errno.ErrForbidden, err)
		}
		return nil, errno.NewBizError(errno.ErrInvalidTicketStatus, err)
	}
	if err := a.tickets.Update(ctx, ticket); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewTicketDTO(ticket), nil
}

func (a *ticketAppImpl) AddResponse(ctx context.Context, actor Actor, ticketID string, req *cqe.AddTicketResponseCqe) (*dto.TicketDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	ticket, err := a.loadVisible(ctx, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if err := ticket.AddResponse(req.Message, actor.UserID, actor.IsAdmin, a.now()); err != nil {
		return nil, errno.NewBizError(errno.ErrEmptyResponse, err)
	}
	if err := a.tickets.Update(ctx, ticket); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewTicketDTO(ticket), nil
}

func (a *ticketAppImpl) Stats(ctx context.Context) (*dto.TicketStatsDTO, error) {
	counts, err := a.tickets.CountByStatus(ctx)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewTicketStatsDTO(counts), nil
}

func (a *ticketAppImpl) loadVisible(ctx context.Context, actor Actor, ticketID string) (*entity.TicketEntity, error) {
	ticket, err := a.tickets.Get(ctx, ticketID)
	if errors.Is(err, repo.ErrRecordNotFound) {
		return nil, errno.ErrTicketNotFound
	}
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if !actor.IsAdmin && !ticket.IsOwnedBy(actor.UserID) {
		return nil, errno.ErrForbidden
	}
	return ticket, nil
}
