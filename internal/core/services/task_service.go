package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

// TaskService is the completion side of the workflow engine. Completing a
// task may check a device in or out against the asset gateway, and the last
// required task of a request that is in_progress cascades into request
// completion and a person status sync.
type TaskService struct {
	requests    ports.LifecycleRepository
	people      ports.PersonRepository
	assignments ports.AssignmentRepository
	assets      ports.AssetGateway
}

var _ ports.TaskService = (*TaskService)(nil)

func NewTaskService(
	requests ports.LifecycleRepository,
	people ports.PersonRepository,
	assignments ports.AssignmentRepository,
	assets ports.AssetGateway,
) *TaskService {
	return &TaskService{
		requests:    requests,
		people:      people,
		assignments: assignments,
		assets:      assets,
	}
}

func (s *TaskService) Get(ctx context.Context, id string) (*domain.LifecycleTask, error) {
	return s.requests.GetTask(ctx, id)
}

func (s *TaskService) ListByRequest(ctx context.Context, requestID string) ([]domain.LifecycleTask, error) {
	// Surface an unknown request as not-found rather than an empty list.
	if _, err := s.requests.GetRequest(ctx, requestID); err != nil {
		return nil, err
	}
	return s.requests.ListTasks(ctx, requestID)
}

func (s *TaskService) Complete(
	ctx context.Context,
	taskID string,
	completed bool,
	notes string,
	caller domain.Caller,
) (*domain.LifecycleTask, error) {
	if !caller.Role.Elevated() {
		return nil, fmt.Errorf("%w: only IT staff may complete tasks", domain.ErrForbidden)
	}
	if !completed {
		return nil, fmt.Errorf("%w: completed must be set to true", domain.ErrValidation)
	}

	task, err := s.requests.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	request, err := s.requests.GetRequest(ctx, task.RequestID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task.Completed = true
	task.CompletedAt = &now
	if notes != "" {
		task.Notes = notes
	}

	audit := domain.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityTask,
		EntityID:   task.ID,
		Action:     domain.AuditStatusChanged,
		OldValue:   "open",
		NewValue:   "completed",
		ChangedBy:  caller.ID,
		ChangedAt:  now,
	}
	if err := s.requests.SaveTask(ctx, *task, audit); err != nil {
		return nil, err
	}

	// Device tasks carry "asset-tag|free-text" in the notes. The gateway
	// runs only after the completion is persisted, so a store failure
	// never leaves the asset system mutated. Gateway failures are logged
	// and never block the completion itself.
	if notes != "" {
		switch task.TaskType {
		case domain.TaskReturnDevice:
			s.checkinDevice(ctx, request.PersonID, notes, caller)
		case domain.TaskAssignDevice:
			s.checkoutDevice(ctx, request.PersonID, notes, caller)
		}
	}

	if err := s.cascadeCompletion(ctx, request, caller); err != nil {
		return nil, err
	}

	return task, nil
}

// cascadeCompletion advances the parent request to completed once every
// required task is done. The request must currently be in_progress: a
// request still pending never auto-completes.
func (s *TaskService) cascadeCompletion(ctx context.Context, request *domain.LifecycleRequest, caller domain.Caller) error {
	tasks, err := s.requests.ListTasks(ctx, request.ID)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		if t.Required && !t.Completed {
			return nil
		}
	}
	if request.Status != domain.RequestInProgress {
		return nil
	}

	now := time.Now().UTC()
	request.Status = domain.RequestCompleted
	request.UpdatedAt = now

	audit := domain.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityRequest,
		EntityID:   request.ID,
		Action:     domain.AuditStatusChanged,
		OldValue:   string(domain.RequestInProgress),
		NewValue:   string(domain.RequestCompleted),
		ChangedBy:  caller.ID,
		ChangedAt:  now,
	}
	if err := s.requests.UpdateRequest(ctx, *request, audit); err != nil {
		return err
	}
	log.Printf("workflow: request %s completed", request.ID)

	return s.syncPersonStatus(ctx, request, caller)
}

// syncPersonStatus moves the person along with the completed request:
// onboard completion activates them, offboard completion retires them.
func (s *TaskService) syncPersonStatus(ctx context.Context, request *domain.LifecycleRequest, caller domain.Caller) error {
	person, err := s.people.GetByID(ctx, request.PersonID)
	if err != nil {
		return err
	}

	target := domain.PersonActive
	if request.RequestType == domain.RequestOffboard {
		target = domain.PersonOffboarded
	}
	if person.Status == target {
		return nil
	}

	now := time.Now().UTC()
	oldStatus := person.Status
	person.Status = target
	person.UpdatedAt = now

	audit := domain.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityPerson,
		EntityID:   person.ID,
		Action:     domain.AuditStatusChanged,
		OldValue:   string(oldStatus),
		NewValue:   string(target),
		ChangedBy:  caller.ID,
		ChangedAt:  now,
	}
	return s.people.Update(ctx, *person, audit)
}

// parseAssetTag extracts the asset tag from "asset-tag|free-text" notes.
func parseAssetTag(notes string) string {
	tag, _, _ := strings.Cut(notes, "|")
	return strings.TrimSpace(tag)
}

func (s *TaskService) checkinDevice(ctx context.Context, personID, notes string, caller domain.Caller) {
	tag := parseAssetTag(notes)
	if tag == "" {
		return
	}

	asset, err := s.assets.FetchByTag(ctx, tag)
	if err != nil || asset == nil {
		log.Printf("workflow: could not resolve asset tag %q for checkin: %v", tag, err)
		return
	}
	if err := s.assets.Checkin(ctx, asset.ID); err != nil {
		log.Printf("workflow: checkin of asset %d failed: %v", asset.ID, err)
		return
	}
	if err := s.assignments.MarkReturned(ctx, personID, tag, time.Now().UTC()); err != nil {
		log.Printf("workflow: could not stamp return of asset %q: %v", tag, err)
		return
	}
	log.Printf("workflow: asset %q checked in for person %s", tag, personID)
}

func (s *TaskService) checkoutDevice(ctx context.Context, personID, notes string, caller domain.Caller) {
	tag := parseAssetTag(notes)
	if tag == "" {
		return
	}

	asset, err := s.assets.FetchByTag(ctx, tag)
	if err != nil || asset == nil {
		log.Printf("workflow: could not resolve asset tag %q for checkout: %v", tag, err)
		return
	}
	if err := s.assets.Checkout(ctx, asset.ID, personID); err != nil {
		log.Printf("workflow: checkout of asset %d failed: %v", asset.ID, err)
		return
	}

	now := time.Now().UTC()
	assignment := domain.AssetAssignment{
		ID:         uuid.NewString(),
		PersonID:   personID,
		AssetID:    asset.ID,
		AssetTag:   tag,
		AssignedAt: now,
	}
	audit := domain.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityAssetAssignment,
		EntityID:   assignment.ID,
		Action:     domain.AuditCreated,
		NewValue:   tag,
		ChangedBy:  caller.ID,
		ChangedAt:  now,
	}
	if err := s.assignments.Create(ctx, assignment, audit); err != nil {
		log.Printf("workflow: could not record assignment of asset %q: %v", tag, err)
		return
	}
	log.Printf("workflow: asset %q checked out to person %s", tag, personID)
}
