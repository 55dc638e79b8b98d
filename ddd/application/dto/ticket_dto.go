package dto

import (
	"time"

	"snipx-service/ddd/domain/entity"
	"snipx-service/ddd/domain/vo"
)

// TicketDTO 工单数据传输对象
type TicketDTO struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Subject     string              `json:"subject"`
	Description string              `json:"description"`
	Priority    string              `json:"priority"`
	Type        string              `json:"type"`
	Status      string              `json:"status"`
	Responses   []vo.TicketResponse `json:"responses"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func NewTicketDTO(t *entity.TicketEntity) *TicketDTO {
	responses := t.Responses()
	if responses == nil {
		responses = []vo.TicketResponse{}
	}
	return &TicketDTO{
		ID:          t.ID(),
		UserID:      t.UserID(),
		Name:        t.Name(),
		Email:       t.Email(),
		Subject:     t.Subject(),
		Description: t.Description(),
		Priority:    string(t.Priority()),
		Type:        string(t.Type()),
		Status:      string(t.Status()),
		Responses:   responses,
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func NewTicketDTOs(list []*entity.TicketEntity) []*TicketDTO {
	out := make([]*TicketDTO, 0, len(list))
	for _, t := range list {
		out = append(out, NewTicketDTO(t))
	}
	return out
}

// TicketStatsDTO 工单统计
type TicketStatsDTO struct {
	Open       int64 `json:"open"`
	InProgress int64 `json:"in_progress"`
	Resolved   int64 `json:"resolved"`
	Closed     int64 `json:"closed"`
	Total      int64 `json:"total"`
}

func NewTicketStatsDTO(counts map[vo.TicketStatus]int64) *TicketStatsDTO {
	s := &TicketStatsDTO{
		Open:       counts[vo.TicketStatusOpen],
		InProgress: counts[vo.TicketStatusInProgress],
		Resolved:   counts[vo.TicketStatusResolved],
		Closed:     counts[vo.TicketStatusClosed],
	}
	s.Total = s.Open + s.InProgress + s.Resolved + s.Closed
	return s
}
