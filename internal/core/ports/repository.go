package ports

import (
	"context"
	"time"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
)

// PersonRepository persists the person registry. Mutations take the audit
// entry to write in the same transaction.
type PersonRepository interface {
	Create(ctx context.Context, person domain.Person, audit domain.AuditEntry) error
	GetByID(ctx context.Context, id string) (*domain.Person, error)
	List(ctx context.Context, filter domain.PersonFilter) ([]domain.Person, error)
	Update(ctx context.Context, person domain.Person, audit domain.AuditEntry) error
}

// LifecycleRepository persists requests, their tasks and ticket links.
type LifecycleRepository interface {
	CreateRequest(ctx context.Context, request domain.LifecycleRequest, audit domain.AuditEntry) error
	GetRequest(ctx context.Context, id string) (*domain.LifecycleRequest, error)
	ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.LifecycleRequest, error)
	UpdateRequest(ctx context.Context, request domain.LifecycleRequest, audit domain.AuditEntry) error

	GetTask(ctx context.Context, id string) (*domain.LifecycleTask, error)
	ListTasks(ctx context.Context, requestID string) ([]domain.LifecycleTask, error)
	SaveTask(ctx context.Context, task domain.LifecycleTask, audit domain.AuditEntry) error

	LinkTicket(ctx context.Context, link domain.TicketLink, audit domain.AuditEntry) error
}

// AssignmentRepository tracks which external assets are out with which
// person.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment domain.AssetAssignment, audit domain.AuditEntry) error
	ListByPerson(ctx context.Context, personID string) ([]domain.AssetAssignment, error)
	MarkReturned(ctx context.Context, personID, assetTag string, returnedAt time.Time) error
}
