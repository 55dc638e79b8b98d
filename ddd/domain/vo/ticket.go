package vo

import "time"

// TicketPriority 工单优先级
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// TicketType 工单类型
type TicketType string

const (
	TicketTypeBug      TicketType = "bug"
	TicketTypeFeature  TicketType = "feature"
	TicketTypeQuestion TicketType = "question"
	TicketTypeOther    TicketType = "other"
)

func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeBug, TicketTypeFeature, TicketTypeQuestion, TicketTypeOther:
		return true
	}
	return false
}

// TicketStatus 工单状态
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketStatuses lists every status, in the order stats are reported.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed}

func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// ResponderType marks who wrote a ticket response.
type ResponderType string

const (
	ResponderAdmin ResponderType = "admin"
	ResponderUser  ResponderType = "user"
)

// TicketResponse is one message in a ticket thread.
type TicketResponse struct {
	Message       string        `json:"message"`
	ResponderType ResponderType `json:"responder_type"`
	ResponderID   string        `json:"responder_id,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}
