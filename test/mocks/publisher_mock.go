package mocks

import (
	"context"
	"sync"

	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

// MockAuditEventPublisher implements ports.AuditEventPublisher for testing.
// This mock allows us to test the audit relay without a real RabbitMQ
// connection.
type MockAuditEventPublisher struct {
	mu sync.RWMutex

	// Track published events for verification
	PublishedEvents []ports.AuditEvent

	// Error injection for testing error scenarios
	PublishError error

	// Track number of calls
	PublishCallCount int
}

// Ensure MockAuditEventPublisher implements ports.AuditEventPublisher at compile time.
var _ ports.AuditEventPublisher = (*MockAuditEventPublisher)(nil)

func NewMockAuditEventPublisher() *MockAuditEventPublisher {
	return &MockAuditEventPublisher{
		PublishedEvents: make([]ports.AuditEvent, 0),
	}
}

// PublishAuditRecorded captures published events for verification.
func (m *MockAuditEventPublisher) PublishAuditRecorded(ctx context.Context, evt ports.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++

	if m.PublishError != nil {
		return m.PublishError
	}

	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// GetPublishedEvents returns a copy of all events that were published.
func (m *MockAuditEventPublisher) GetPublishedEvents() []ports.AuditEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.AuditEvent, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

// Reset clears all tracking data.
func (m *MockAuditEventPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishedEvents = make([]ports.AuditEvent, 0)
	m.PublishError = nil
	m.PublishCallCount = 0
}
