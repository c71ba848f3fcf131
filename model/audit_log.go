package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is a persisted audit event.
type AuditLog struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	EventType  string `json:"eventType" gorm:"column:event_type;type:varchar(64);index"`
	ActorID    string `json:"actorId" gorm:"column:actor_id;type:varchar(64);index"`
	EntityType string `json:"entityType" gorm:"column:entity_type;type:varchar(64);index:idx_audit_entity,priority:1"`
	EntityID   uint   `json:"entityId" gorm:"column:entity_id;index:idx_audit_entity,priority:2"`
	RequestID  string `json:"requestId" gorm:"column:request_id;type:varchar(64)"`
	IP         string `json:"ip" gorm:"column:ip;type:varchar(45)"`
	// Location stores city and country in the format "City/Country" when available.
	Location  string         `json:"location" gorm:"column:location;type:varchar(255)"`
	UserAgent string         `json:"userAgent" gorm:"column:user_agent;type:varchar(512)"`
	Message   string         `json:"message" gorm:"column:message;type:text"`
	Details   datatypes.JSON `json:"details" gorm:"column:details;type:json"`
	CreatedAt time.Time      `json:"createdAt" gorm:"index"`
}
