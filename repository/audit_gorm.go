package repository

import (
	"context"
	"fmt"

	"github.com/ariebrainware/clinic-care/model"
)

const maxAuditPage = 500

// AuditFilter narrows ListAuditLogs. Zero values match everything.
type AuditFilter struct {
	EventType  string
	EntityType string
	EntityID   uint
	Limit      int
}

// ListAuditLogs returns the newest audit entries first.
func (s *Store) ListAuditLogs(ctx context.Context, f AuditFilter) ([]model.AuditLog, error) {
	limit := f.Limit
	switch {
	case limit <= 0:
		limit = 100
	case limit > maxAuditPage:
		limit = maxAuditPage
	}

	q := s.conn(ctx).Model(&model.AuditLog{})
	if f.EventType != "" {
		q = q.Where("event_type = ?", f.EventType)
	}
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != 0 {
		q = q.Where("entity_id = ?", f.EntityID)
	}

	var logs []model.AuditLog
	if err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}
