package ports

import (
	"context"
	"time"
)

// AuditEvent is the wire form of an audit row shipped to the broker.
type AuditEvent struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value,omitempty"`
	ChangedBy  string    `json:"changed_by"`
	ChangedAt  time.Time `json:"changed_at"`
}

type AuditEventPublisher interface {
	PublishAuditRecorded(ctx context.Context, evt AuditEvent) error
}
