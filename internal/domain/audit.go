package domain

import "time"

// AuditLog records one mutating storefront action, written by the
// event bus subscriber.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string    `gorm:"size:120;index" json:"actor"`
	Action    string    `gorm:"size:80;index" json:"action"`
	Detail    string    `gorm:"size:400" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (AuditLog) TableName() string {
	return "audit_log"
}
