package entity

import (
	"strings"
	"time"

	"snipx-service/ddd/domain/vo"
)

// TicketEntity 支持工单
type TicketEntity struct {
	id          string
	userID      string
	name        string
	email       string
	subject     string
	description string
	priority    vo.TicketPriority
	ticketType  vo.TicketType
	status      vo.TicketStatus
	responses   []vo.TicketResponse
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTicketEntity 创建工单，priority/type 为空时使用默认值
func NewTicketEntity(userID, name, email, subject, description string, priority vo.TicketPriority, ticketType vo.TicketType) (*TicketEntity, error) {
	subject = strings.TrimSpace(subject)
	description = strings.TrimSpace(description)
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || subject == "" || description == "" {
		return nil, NewDomainError(ErrCodeInvalidField, "name, email, subject and description are required")
	}
	if priority == "" {
		priority = vo.TicketPriorityMedium
	}
	if !priority.IsValid() {
		return nil, NewDomainError(ErrCodeInvalidField, "invalid priority "+string(priority))
	}
	if ticketType == "" {
		ticketType = vo.TicketTypeBug
	}
	if !ticketType.IsValid() {
		return nil, NewDomainError(ErrCodeInvalidField, "invalid ticket type "+string(ticketType))
	}
	now := time.Now()
	return &TicketEntity{
		userID:      userID,
		name:        strings.TrimSpace(name),
		email:       NormalizeEmail(email),
		subject:     subject,
		description: description,
		priority:    priority,
		ticketType:  ticketType,
		status:      vo.TicketStatusOpen,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// NewTicketEntityWithDetails 从持久化数据重建
func NewTicketEntityWithDetails(
	id, userID, name, email, subject, description string,
	priority vo.TicketPriority, ticketType vo.TicketType, status vo.TicketStatus,
	responses []vo.TicketResponse, createdAt, updatedAt time.Time,
) *TicketEntity {
	return &TicketEntity{
		id:          id,
		userID:      userID,
		name:        name,
		email:       email,
		subject:     subject,
		description: description,
		priority:    priority,
		ticketType:  ticketType,
		status:      status,
		responses:   responses,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (t *TicketEntity) ID() string { return t.id }
func (t *TicketEntity) SetID(id string) { t.id = id }
func (t *TicketEntity) UserID() string { return t.userID }
func (t *TicketEntity) Name() string { return t.name }
func (t *TicketEntity) Email() string { return t.email }
func (t *TicketEntity) Subject() string { return t.subject }
func (t *TicketEntity) Description() string { return t.description }
func (t *TicketEntity) Priority() vo.TicketPriority { return t.priority }
func (t *TicketEntity) Type() vo.TicketType { return t.ticketType }
func (t *TicketEntity) Status() vo.TicketStatus { return t.status }
func (t *TicketEntity) CreatedAt() time.Time { return t.createdAt }
func (t *TicketEntity) UpdatedAt() time.Time { return t.updatedAt }

// Responses 返回回复列表副本
func (t *TicketEntity) Responses() []vo.TicketResponse {
	out := make([]vo.TicketResponse, len(t.responses))
	copy(out, t.responses)
	return out
}

func (t *TicketEntity) IsOwnedBy(userID string) bool {
	return t.userID != "" && t.userID == userID
}

// ChangeStatus 修改状态。普通用户只能关闭自己的工单，管理员可以设置任意状态。
func (t *TicketEntity) ChangeStatus(status vo.TicketStatus, byAdmin bool) error {
	if !status.IsValid() {
		return NewDomainError(ErrCodeInvalidField, "invalid ticket status "+string(status))
	}
	if !byAdmin && status != vo.TicketStatusClosed {
		return NewDomainError(ErrCodePermission, "only admins can set status "+string(status))
	}
	t.status = status
	t.updatedAt = time.Now()
	return nil
}

// AddResponse 追加回复，状态不变
func (t *TicketEntity) AddResponse(message, responderID string, byAdmin bool, now time.Time) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return NewDomainError(ErrCodeInvalidField, "response message is empty")
	}
	rt := vo.ResponderUser
	if byAdmin {
		rt = vo.ResponderAdmin
	}
	t.responses = append(t.responses, vo.TicketResponse{
		Message:       message,
		ResponderType: rt,
		ResponderID:   responderID,
		Timestamp:     now,
	})
	t.updatedAt = now
	return nil
}
