package mocks

import (
	"time"

	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

// CreateTestAuditEvent creates a sample audit event for testing.
func CreateTestAuditEvent() ports.AuditEvent {
	return ports.AuditEvent{
		ID:         "test-audit-id",
		EntityType: "person",
		EntityID:   "test-person-id",
		Action:     "created",
		ChangedBy:  "test-user-id",
		ChangedAt:  time.Now().UTC(),
	}
}
