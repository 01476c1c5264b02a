// Package mocks provides mock implementations of port interfaces for testing.
// In hexagonal architecture, ports define the contracts between the core domain
// and external adapters. Mocks implement these interfaces to enable isolated testing.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

// MockPersonRepository implements ports.PersonRepository for testing.
// This mock allows us to test services without a real database connection.
type MockPersonRepository struct {
	mu sync.RWMutex

	// In-memory storage for testing
	people map[string]*domain.Person

	// Call tracking for verification
	CreateCalls []domain.Person
	UpdateCalls []domain.Person
	AuditTrail  []domain.AuditEntry

	// Error injection for testing error scenarios
	CreateError  error
	GetByIDError error
	ListError    error
	UpdateError  error
}

// Ensure MockPersonRepository implements ports.PersonRepository at compile time.
var _ ports.PersonRepository = (*MockPersonRepository)(nil)

func NewMockPersonRepository() *MockPersonRepository {
	return &MockPersonRepository{
		people: make(map[string]*domain.Person),
	}
}

// SeedPerson adds a person to the mock repository for test setup.
func (m *MockPersonRepository) SeedPerson(person *domain.Person) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.people[person.ID] = person
}

func (m *MockPersonRepository) Create(ctx context.Context, person domain.Person, audit domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, person)

	if m.CreateError != nil {
		return m.CreateError
	}

	m.people[person.ID] = &person
	m.AuditTrail = append(m.AuditTrail, audit)
	return nil
}

func (m *MockPersonRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	person, ok := m.people[id]
	if !ok {
		return nil, fmt.Errorf("%w: person %s", domain.ErrNotFound, id)
	}
	copied := *person
	return &copied, nil
}

func (m *MockPersonRepository) List(ctx context.Context, filter domain.PersonFilter) ([]domain.Person, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.Person
	for _, p := range m.people {
		if filter.PersonType != "" && p.PersonType != filter.PersonType {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *MockPersonRepository) Update(ctx context.Context, person domain.Person, audit domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls = append(m.UpdateCalls, person)

	if m.UpdateError != nil {
		return m.UpdateError
	}

	if _, ok := m.people[person.ID]; !ok {
		return fmt.Errorf("%w: person %s", domain.ErrNotFound, person.ID)
	}
	m.people[person.ID] = &person
	m.AuditTrail = append(m.AuditTrail, audit)
	return nil
}

// MockLifecycleRepository implements ports.LifecycleRepository for testing.
type MockLifecycleRepository struct {
	mu sync.RWMutex

	requests map[string]*domain.LifecycleRequest
	tasks    map[string]*domain.LifecycleTask
	tickets  map[string]*domain.TicketLink

	CreateRequestCalls []domain.LifecycleRequest
	UpdateRequestCalls []domain.LifecycleRequest
	SaveTaskCalls      []domain.LifecycleTask
	LinkTicketCalls    []domain.TicketLink
	AuditTrail         []domain.AuditEntry

	CreateRequestError error
	GetRequestError    error
	ListRequestsError  error
	UpdateRequestError error
	GetTaskError       error
	SaveTaskError      error
	LinkTicketError    error
}

var _ ports.LifecycleRepository = (*MockLifecycleRepository)(nil)

func NewMockLifecycleRepository() *MockLifecycleRepository {
	return &MockLifecycleRepository{
		requests: make(map[string]*domain.LifecycleRequest),
		tasks:    make(map[string]*domain.LifecycleTask),
		tickets:  make(map[string]*domain.TicketLink),
	}
}

// SeedRequest adds a request and its tasks to the mock for test setup.
func (m *MockLifecycleRepository) SeedRequest(request *domain.LifecycleRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[request.ID] = request
	for i := range request.Tasks {
		task := request.Tasks[i]
		m.tasks[task.ID] = &task
	}
}

func (m *MockLifecycleRepository) CreateRequest(ctx context.Context, request domain.LifecycleRequest, audit domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateRequestCalls = append(m.CreateRequestCalls, request)

	if m.CreateRequestError != nil {
		return m.CreateRequestError
	}

	m.requests[request.ID] = &request
	for i := range request.Tasks {
		task := request.Tasks[i]
		m.tasks[task.ID] = &task
	}
	m.AuditTrail = append(m.AuditTrail, audit)
	return nil
}

func (m *MockLifecycleRepository) GetRequest(ctx context.Context, id string) (*domain.LifecycleRequest, error) {
	if m.GetRequestError != nil {
		return nil, m.GetRequestError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	request, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: request %s", domain.ErrNotFound, id)
	}
	copied := *request
	copied.Tasks = m.tasksForLocked(id)
	return &copied, nil
}

func (m *MockLifecycleRepository) ListRequests(ctx context.Context, filter domain.RequestFilter) ([]domain.LifecycleRequest, error) {
	if m.ListRequestsError != nil {
		return nil, m.ListRequestsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.LifecycleRequest
	for _, r := range m.requests {
		if filter.PersonID != "" && r.PersonID != filter.PersonID {
			continue
		}
		if filter.RequestType != "" && r.RequestType != filter.RequestType {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.SubmittedBy != "" && r.SubmittedBy != filter.SubmittedBy {
			continue
		}
		copied := *r
		copied.Tasks = m.tasksForLocked(r.ID)
		out = append(out, copied)
	}
	return out, nil
}

func (m *MockLifecycleRepository) UpdateRequest(ctx context.Context, request domain.LifecycleRequest, audit domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateRequestCalls = append(m.UpdateRequestCalls, request)

	if m.UpdateRequestError != nil {
		return m.UpdateRequestError
	}

	if _, ok := m.requests[request.ID]; !ok {
		return fmt.Errorf("%w: request %s", domain.ErrNotFound, request.ID)
	}
	m.requests[request.ID] = &request
	m.AuditTrail = append(m.AuditTrail, audit)
	return nil
}

func (m *MockLifecycleRepository) GetTask(ctx context.Context, id string) (*domain.LifecycleTask, error) {
	if m.GetTaskError != nil {
		return nil, m.GetTaskError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	task, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: task %s", domain.ErrNotFound, id)
	}
	copied := *task
	return &copied, nil
}

func (m *MockLifecycleRepository) ListTasks(ctx context.Context, requestID string) ([]domain.LifecycleTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tasksForLocked(requestID), nil
}

func (m *MockLifecycleRepository) SaveTask(ctx context.Context, task domain.LifecycleTask, audit domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveTaskCalls = append(m.SaveTaskCalls, task)

	if m.SaveTaskError != nil {
		return m.SaveTaskError
	}

	m.tasks[task.ID] = &task
	m.AuditTrail = append(m.AuditTrail, audit)
	return nil
}

func (m *MockLifecycleRepository) LinkTicket(ctx context.Context, link domain.TicketLink, audit domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LinkTicketCalls = append(m.LinkTicketCalls, link)

	if m.LinkTicketError != nil {
		return m.LinkTicketError
	}

	for _, existing := range m.tickets {
		if existing.TicketID == link.TicketID {
			return fmt.Errorf("%w: ticket %s already linked", domain.ErrConflict, link.TicketID)
		}
	}
	m.tickets[link.ID] = &link
	m.AuditTrail = append(m.AuditTrail, audit)
	return nil
}

// tasksForLocked returns the tasks of a request. Callers hold m.mu.
func (m *MockLifecycleRepository) tasksForLocked(requestID string) []domain.LifecycleTask {
	var out []domain.LifecycleTask
	for _, t := range m.tasks {
		if t.RequestID == requestID {
			out = append(out, *t)
		}
	}
	return out
}

// MockAssignmentRepository implements ports.AssignmentRepository for testing.
type MockAssignmentRepository struct {
	mu sync.RWMutex

	assignments []domain.AssetAssignment

	CreateCalls       []domain.AssetAssignment
	MarkReturnedCalls []string
	AuditTrail        []domain.AuditEntry

	CreateError       error
	ListByPersonError error
	MarkReturnedError error
}

var _ ports.AssignmentRepository = (*MockAssignmentRepository)(nil)

func NewMockAssignmentRepository() *MockAssignmentRepository {
	return &MockAssignmentRepository{}
}

// SeedAssignment adds an assignment for test setup.
func (m *MockAssignmentRepository) SeedAssignment(assignment domain.AssetAssignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = append(m.assignments, assignment)
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment domain.AssetAssignment, audit domain.AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, assignment)

	if m.CreateError != nil {
		return m.CreateError
	}

	m.assignments = append(m.assignments, assignment)
	m.AuditTrail = append(m.AuditTrail, audit)
	return nil
}

func (m *MockAssignmentRepository) ListByPerson(ctx context.Context, personID string) ([]domain.AssetAssignment, error) {
	if m.ListByPersonError != nil {
		return nil, m.ListByPersonError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.AssetAssignment
	for _, a := range m.assignments {
		if a.PersonID == personID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *MockAssignmentRepository) MarkReturned(ctx context.Context, personID, assetTag string, returnedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.MarkReturnedCalls = append(m.MarkReturnedCalls, personID+"/"+assetTag)

	if m.MarkReturnedError != nil {
		return m.MarkReturnedError
	}

	for i := range m.assignments {
		a := &m.assignments[i]
		if a.PersonID == personID && a.AssetTag == assetTag && a.ReturnedAt == nil {
			at := returnedAt
			a.ReturnedAt = &at
		}
	}
	return nil
}
