package domain

import "time"

// Audit actions.
const (
	AuditCreated       = "created"
	AuditUpdated       = "updated"
	AuditStatusChanged = "status_changed"
)

// Audit entity types.
const (
	EntityPerson          = "person"
	EntityRequest         = "lifecycle_request"
	EntityTask            = "lifecycle_task"
	EntityAssetAssignment = "asset_assignment"
	EntityTicketLink      = "ticket_link"
)

// AuditEntry records one change. Rows are appended in the same transaction
// as the mutation they describe and later shipped to the message broker by
// the relay.
type AuditEntry struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value,omitempty"`
	ChangedBy  string    `json:"changed_by"`
	ChangedAt  time.Time `json:"changed_at"`
}
