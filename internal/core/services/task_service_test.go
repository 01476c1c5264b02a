package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/services"
	"github.com/oakvale-college/lifecycle-service/test/mocks"
)

type taskFixture struct {
	requests    *mocks.MockLifecycleRepository
	people      *mocks.MockPersonRepository
	assignments *mocks.MockAssignmentRepository
	assets      *mocks.MockAssetGateway
	service     *services.TaskService
}

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		requests:    mocks.NewMockLifecycleRepository(),
		people:      mocks.NewMockPersonRepository(),
		assignments: mocks.NewMockAssignmentRepository(),
		assets:      mocks.NewMockAssetGateway(),
	}
	f.service = services.NewTaskService(f.requests, f.people, f.assignments, f.assets)
	return f
}

// seedOffboard seeds an offboard request with its two required tasks.
func (f *taskFixture) seedOffboard(status domain.RequestStatus) {
	seedPerson(f.people, "p-1")
	f.requests.SeedRequest(&domain.LifecycleRequest{
		ID:          "r-1",
		PersonID:    "p-1",
		RequestType: domain.RequestOffboard,
		Status:      status,
		SubmittedBy: "hr-1",
		Tasks: []domain.LifecycleTask{
			{ID: "t-return", RequestID: "r-1", TaskType: domain.TaskReturnDevice, Required: true},
			{ID: "t-keys", RequestID: "r-1", TaskType: domain.TaskCollectKeys, Required: true},
		},
	})
}

var itCaller = domain.Caller{ID: "it-1", Role: domain.RoleIT}

func TestTaskService_Complete_AuthzAndValidation(t *testing.T) {
	tests := []struct {
		name      string
		caller    domain.Caller
		completed bool
		wantErr   error
	}{
		{
			name:      "hr_forbidden",
			caller:    domain.Caller{ID: "hr-1", Role: domain.RoleHR},
			completed: true,
			wantErr:   domain.ErrForbidden,
		},
		{
			name:      "enrolment_forbidden",
			caller:    domain.Caller{ID: "eo-1", Role: domain.RoleEnrolment},
			completed: true,
			wantErr:   domain.ErrForbidden,
		},
		{
			name:      "uncompleting_rejected",
			caller:    itCaller,
			completed: false,
			wantErr:   domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskFixture()
			f.seedOffboard(domain.RequestInProgress)

			_, err := f.service.Complete(context.Background(), "t-keys", tt.completed, "", tt.caller)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if len(f.requests.SaveTaskCalls) != 0 {
				t.Errorf("nothing should be persisted on rejection")
			}
		})
	}
}

func TestTaskService_Complete_CascadesWhenLastRequiredDone(t *testing.T) {
	f := newTaskFixture()
	f.seedOffboard(domain.RequestInProgress)

	// First required task done: request must stay in_progress.
	if _, err := f.service.Complete(context.Background(), "t-keys", true, "", itCaller); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	request, _ := f.requests.GetRequest(context.Background(), "r-1")
	if request.Status != domain.RequestInProgress {
		t.Fatalf("request advanced too early: %q", request.Status)
	}

	// Second required task done: request completes, person is offboarded.
	before := time.Now().UTC()
	if _, err := f.service.Complete(context.Background(), "t-return", true, "", itCaller); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	request, _ = f.requests.GetRequest(context.Background(), "r-1")
	if request.Status != domain.RequestCompleted {
		t.Fatalf("request status = %q, want %q", request.Status, domain.RequestCompleted)
	}
	if request.UpdatedAt.Before(before) {
		t.Errorf("request UpdatedAt %v predates the completion at %v", request.UpdatedAt, before)
	}
	person, _ := f.people.GetByID(context.Background(), "p-1")
	if person.Status != domain.PersonOffboarded {
		t.Errorf("person status = %q, want %q", person.Status, domain.PersonOffboarded)
	}
}

func TestTaskService_Complete_PendingRequestNeverAutoCompletes(t *testing.T) {
	f := newTaskFixture()
	f.seedOffboard(domain.RequestPending)

	if _, err := f.service.Complete(context.Background(), "t-keys", true, "", itCaller); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.Complete(context.Background(), "t-return", true, "", itCaller); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	request, _ := f.requests.GetRequest(context.Background(), "r-1")
	if request.Status != domain.RequestPending {
		t.Fatalf("pending request must not auto-complete, got %q", request.Status)
	}
	person, _ := f.people.GetByID(context.Background(), "p-1")
	if person.Status != domain.PersonOnboarding {
		t.Errorf("person status must not change, got %q", person.Status)
	}
}

func TestTaskService_Complete_OnboardActivatesPerson(t *testing.T) {
	f := newTaskFixture()
	seedPerson(f.people, "p-1")
	f.requests.SeedRequest(&domain.LifecycleRequest{
		ID:          "r-1",
		PersonID:    "p-1",
		RequestType: domain.RequestOnboard,
		Status:      domain.RequestInProgress,
		SubmittedBy: "eo-1",
		Tasks: []domain.LifecycleTask{
			{ID: "t-device", RequestID: "r-1", TaskType: domain.TaskAssignDevice, Required: true},
			{ID: "t-badge", RequestID: "r-1", TaskType: domain.TaskIssueBadge, Required: false},
		},
	})

	// The optional badge task stays open; only the required one gates.
	if _, err := f.service.Complete(context.Background(), "t-device", true, "", itCaller); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	request, _ := f.requests.GetRequest(context.Background(), "r-1")
	if request.Status != domain.RequestCompleted {
		t.Fatalf("request status = %q, want %q", request.Status, domain.RequestCompleted)
	}
	person, _ := f.people.GetByID(context.Background(), "p-1")
	if person.Status != domain.PersonActive {
		t.Errorf("person status = %q, want %q", person.Status, domain.PersonActive)
	}
}

func TestTaskService_Complete_ReturnDeviceChecksIn(t *testing.T) {
	f := newTaskFixture()
	f.seedOffboard(domain.RequestInProgress)
	f.assets.SeedAsset(domain.Asset{ID: 42, AssetTag: "OAK-0042", AssignedTo: "p-1"})
	f.assignments.SeedAssignment(domain.AssetAssignment{ID: "a-1", PersonID: "p-1", AssetID: 42, AssetTag: "OAK-0042"})

	task, err := f.service.Complete(context.Background(), "t-return", true, "OAK-0042|screen scratched", itCaller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !task.Completed {
		t.Errorf("task not marked completed")
	}

	if len(f.assets.CheckinCalls) != 1 || f.assets.CheckinCalls[0] != 42 {
		t.Errorf("expected checkin of asset 42, got %v", f.assets.CheckinCalls)
	}
	if len(f.assignments.MarkReturnedCalls) != 1 || f.assignments.MarkReturnedCalls[0] != "p-1/OAK-0042" {
		t.Errorf("expected return stamp for p-1/OAK-0042, got %v", f.assignments.MarkReturnedCalls)
	}
}

func TestTaskService_Complete_AssignDeviceChecksOut(t *testing.T) {
	f := newTaskFixture()
	seedPerson(f.people, "p-1")
	f.requests.SeedRequest(&domain.LifecycleRequest{
		ID:          "r-1",
		PersonID:    "p-1",
		RequestType: domain.RequestOnboard,
		Status:      domain.RequestPending,
		SubmittedBy: "eo-1",
		Tasks: []domain.LifecycleTask{
			{ID: "t-device", RequestID: "r-1", TaskType: domain.TaskAssignDevice, Required: true},
		},
	})
	f.assets.SeedAsset(domain.Asset{ID: 7, AssetTag: "OAK-0007", StatusID: 1})

	if _, err := f.service.Complete(context.Background(), "t-device", true, "OAK-0007", itCaller); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.assets.CheckoutCalls) != 1 || f.assets.CheckoutCalls[0] != "7/p-1" {
		t.Errorf("expected checkout 7/p-1, got %v", f.assets.CheckoutCalls)
	}
	if len(f.assignments.CreateCalls) != 1 {
		t.Fatalf("expected one assignment record, got %d", len(f.assignments.CreateCalls))
	}
	if f.assignments.CreateCalls[0].AssetTag != "OAK-0007" {
		t.Errorf("assignment tag = %q", f.assignments.CreateCalls[0].AssetTag)
	}
}

func TestTaskService_Complete_GatewayFailureDoesNotBlock(t *testing.T) {
	f := newTaskFixture()
	f.seedOffboard(domain.RequestInProgress)
	f.assets.FetchByTagError = errors.New("snipe-it unreachable")

	task, err := f.service.Complete(context.Background(), "t-return", true, "OAK-0042|fine", itCaller)
	if err != nil {
		t.Fatalf("asset outage must not block completion: %v", err)
	}
	if !task.Completed {
		t.Errorf("task not marked completed")
	}
	if len(f.assets.CheckinCalls) != 0 {
		t.Errorf("no checkin should happen when the tag cannot be resolved")
	}
}

func TestTaskService_Complete_StoreFailureLeavesAssetsUntouched(t *testing.T) {
	f := newTaskFixture()
	f.seedOffboard(domain.RequestInProgress)
	f.assets.SeedAsset(domain.Asset{ID: 42, AssetTag: "OAK-0042", AssignedTo: "p-1"})
	f.requests.SaveTaskError = errors.New("connection reset")

	if _, err := f.service.Complete(context.Background(), "t-return", true, "OAK-0042|fine", itCaller); err == nil {
		t.Fatal("expected the store failure to surface")
	}
	if len(f.assets.FetchByTagCalls) != 0 || len(f.assets.CheckinCalls) != 0 {
		t.Errorf("asset gateway must not be touched when completion is not persisted")
	}
	if len(f.assignments.MarkReturnedCalls) != 0 {
		t.Errorf("no return stamp without a persisted completion")
	}
}

func TestTaskService_ListByRequest_UnknownRequest(t *testing.T) {
	f := newTaskFixture()

	if _, err := f.service.ListByRequest(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
