package models

import "time"

// AuditLog is the append-only compliance record kept in the relational
// store. Rows are never updated or deleted.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ActorID    string    `gorm:"index;not null" json:"actorId"`
	ActorRole  string    `gorm:"not null" json:"actorRole"`
	Action     string    `gorm:"index;not null" json:"action"`
	EntityType string    `gorm:"not null" json:"entityType"`
	EntityID   string    `json:"entityId"`
	Metadata   string    `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt  time.Time `gorm:"index;autoCreateTime" json:"createdAt"`
}

func (AuditLog) TableName() string { return "audit_logs" }
