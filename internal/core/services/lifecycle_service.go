package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

// LifecycleService is the request side of the workflow engine: submitting
// requests with their generated task checklist, role-scoped listing,
// ownership-checked updates and ticket linking.
type LifecycleService struct {
	requests ports.LifecycleRepository
	people   ports.PersonRepository
}

var _ ports.LifecycleService = (*LifecycleService)(nil)

func NewLifecycleService(requests ports.LifecycleRepository, people ports.PersonRepository) *LifecycleService {
	return &LifecycleService{requests: requests, people: people}
}

func (s *LifecycleService) Submit(
	ctx context.Context,
	personID, requestType, submittedRole string,
	effectiveDate time.Time,
	notes string,
	submittedBy string,
) (*domain.LifecycleRequest, error) {
	rt, err := domain.ParseRequestType(requestType)
	if err != nil {
		return nil, err
	}
	role, err := domain.ParseRole(submittedRole)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleEnrolment && role != domain.RoleHR {
		return nil, fmt.Errorf("%w: submitted role must be 'enrolment' or 'hr'", domain.ErrValidation)
	}

	// The person must exist before anything is persisted.
	if _, err := s.people.GetByID(ctx, personID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request := domain.LifecycleRequest{
		ID:            uuid.NewString(),
		PersonID:      personID,
		RequestType:   rt,
		Status:        domain.RequestPending,
		SubmittedBy:   submittedBy,
		SubmittedRole: role,
		EffectiveDate: effectiveDate,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tasks := domain.DefaultTasks(rt)
	for i := range tasks {
		tasks[i].ID = uuid.NewString()
		tasks[i].RequestID = request.ID
	}
	request.Tasks = tasks

	audit := domain.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityRequest,
		EntityID:   request.ID,
		Action:     domain.AuditCreated,
		NewValue:   string(request.Status),
		ChangedBy:  submittedBy,
		ChangedAt:  now,
	}

	if err := s.requests.CreateRequest(ctx, request, audit); err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *LifecycleService) Get(ctx context.Context, id string) (*domain.LifecycleRequest, error) {
	return s.requests.GetRequest(ctx, id)
}

// List applies the authorization scope before querying: elevated callers
// see every request, everyone else only their own submissions.
func (s *LifecycleService) List(ctx context.Context, filter domain.RequestFilter, caller domain.Caller) ([]domain.LifecycleRequest, error) {
	if !caller.Role.Elevated() {
		filter.SubmittedBy = caller.ID
	}
	return s.requests.ListRequests(ctx, filter)
}

func (s *LifecycleService) Update(
	ctx context.Context,
	id string,
	upd domain.RequestUpdate,
	caller domain.Caller,
) (*domain.LifecycleRequest, error) {
	request, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !caller.Role.Elevated() && request.SubmittedBy != caller.ID {
		return nil, fmt.Errorf("%w: request belongs to another submitter", domain.ErrForbidden)
	}

	oldStatus := request.Status

	if upd.Status != nil {
		status, err := domain.ParseRequestStatus(*upd.Status)
		if err != nil {
			return nil, err
		}
		request.Status = status
	}
	if upd.EffectiveDate != nil {
		request.EffectiveDate = *upd.EffectiveDate
	}
	if upd.Notes != nil {
		request.Notes = *upd.Notes
	}

	now := time.Now().UTC()
	request.UpdatedAt = now

	action := domain.AuditUpdated
	if request.Status != oldStatus {
		action = domain.AuditStatusChanged
	}
	audit := domain.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityRequest,
		EntityID:   request.ID,
		Action:     action,
		OldValue:   string(oldStatus),
		NewValue:   string(request.Status),
		ChangedBy:  caller.ID,
		ChangedAt:  now,
	}

	if err := s.requests.UpdateRequest(ctx, *request, audit); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *LifecycleService) LinkTicket(
	ctx context.Context,
	requestID, ticketID, ticketType string,
	caller domain.Caller,
) (*domain.TicketLink, error) {
	request, err := s.requests.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !caller.Role.Elevated() && request.SubmittedBy != caller.ID {
		return nil, fmt.Errorf("%w: request belongs to another submitter", domain.ErrForbidden)
	}
	if ticketID == "" {
		return nil, fmt.Errorf("%w: ticket id is required", domain.ErrValidation)
	}

	now := time.Now().UTC()
	link := domain.TicketLink{
		ID:         uuid.NewString(),
		RequestID:  request.ID,
		TicketID:   ticketID,
		TicketType: ticketType,
		CreatedAt:  now,
	}

	audit := domain.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityTicketLink,
		EntityID:   link.ID,
		Action:     domain.AuditCreated,
		NewValue:   ticketID,
		ChangedBy:  caller.ID,
		ChangedAt:  now,
	}

	if err := s.requests.LinkTicket(ctx, link, audit); err != nil {
		return nil, err
	}
	return &link, nil
}
