package audit

import "time"

// AuditLog is append-only; nothing in the core reads it back.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey"`
	UserID    *string   `gorm:"column:user_id;type:uuid"`
	Action    string    `gorm:"column:action;not null"`
	Entity    *string   `gorm:"column:entity"`
	EntityID  *string   `gorm:"column:entity_id"`
	Metadata  []byte    `gorm:"column:metadata;type:jsonb"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
