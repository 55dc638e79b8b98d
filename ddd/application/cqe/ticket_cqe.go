package cqe

import (
	"strings"

	"snipx-service/ddd/domain/vo"
	"snipx-service/pkg/errno"
)

// CreateTicketCqe 创建工单
type CreateTicketCqe struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Type        string `json:"type"`
}

func (c *CreateTicketCqe) Validate() error {
	if strings.TrimSpace(c.Subject) == "" || strings.TrimSpace(c.Description) == "" {
		return errno.ErrTicketFieldRequired
	}
	if c.Priority != "" && !vo.TicketPriority(c.Priority).IsValid() {
		return errno.ErrInvalidPriority
	}
	if c.Type != "" && !vo.TicketType(c.Type).IsValid() {
		return errno.ErrInvalidTicketType
	}
	return nil
}

type UpdateTicketStatusCqe struct {
	Status string `json:"status"`
}

func (c *UpdateTicketStatusCqe) Validate() error {
	if !vo.TicketStatus(c.Status).IsValid() {
		return errno.ErrInvalidTicketStatus
	}
	return nil
}

type AddTicketResponseCqe struct {
	Message string `json:"message"`
}

func (c *AddTicketResponseCqe) Validate() error {
	if strings.TrimSpace(c.Message) == "" {
		return errno.ErrEmptyResponse
	}
	return nil
}

// TicketQuery 管理端列表过滤
type TicketQuery struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
}

func (q *TicketQuery) Validate() error {
	if q.Status != "" && !vo.TicketStatus(q.Status).IsValid() {
		return errno.ErrInvalidTicketStatus
	}
	if q.Priority != "" && !vo.TicketPriority(q.Priority).IsValid() {
		return errno.ErrInvalidPriority
	}
	return nil
}
