package po

import "snipx-service/ddd/domain/vo"

// SupportTicket 工单持久化对象
type SupportTicket struct {
	BaseModel
	TicketUUID  string                          `gorm:"column:ticket_uuid;type:varchar(36);uniqueIndex" json:"ticket_uuid"`
	UserUUID    string                          `gorm:"column:user_uuid;type:varchar(36);index" json:"user_uuid"`
	Name        string                          `gorm:"column:name;type:varchar(100)" json:"name"`
	Email       string                          `gorm:"column:email;type:varchar(255)" json:"email"`
	Subject     string                          `gorm:"column:subject;type:varchar(255)" json:"subject"`
	Description string                          `gorm:"column:description;type:text" json:"description"`
	Priority    string                          `gorm:"column:priority;type:varchar(20);index" json:"priority"`
	Type        string                          `gorm:"column:type;type:varchar(20)" json:"type"`
	Status      string                          `gorm:"column:status;type:varchar(20);index" json:"status"`
	Responses   JSONColumn[[]vo.TicketResponse] `gorm:"column:responses;type:text" json:"responses"`
}

// TableName 指定表名
func (SupportTicket) TableName() string {
	return "support_tickets"
}

// AllModels lists every table AutoMigrate manages.
func AllModels() []interface{} {
	return []interface{}{&Video{}, &User{}, &SupportTicket{}}
}
