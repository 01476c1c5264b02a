package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/oakvale-college/lifecycle-service/internal/adapters/handler"
	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

// stubPersonService implements ports.PersonService with canned behavior.
type stubPersonService struct {
	person *domain.Person
	people []domain.Person
	err    error
}

var _ ports.PersonService = (*stubPersonService)(nil)

func (s *stubPersonService) Create(ctx context.Context, firstName, lastName, personType string, startDate, endDate *time.Time, notes string) (*domain.Person, error) {
	return s.person, s.err
}

func (s *stubPersonService) Get(ctx context.Context, id string) (*domain.Person, error) {
	return s.person, s.err
}

func (s *stubPersonService) List(ctx context.Context, filter domain.PersonFilter) ([]domain.Person, error) {
	return s.people, s.err
}

func (s *stubPersonService) Update(ctx context.Context, id string, upd domain.PersonUpdate) (*domain.Person, error) {
	return s.person, s.err
}

// stubTaskService implements ports.TaskService with canned behavior.
type stubTaskService struct {
	task  *domain.LifecycleTask
	tasks []domain.LifecycleTask
	err   error
}

var _ ports.TaskService = (*stubTaskService)(nil)

func (s *stubTaskService) Get(ctx context.Context, id string) (*domain.LifecycleTask, error) {
	return s.task, s.err
}

func (s *stubTaskService) ListByRequest(ctx context.Context, requestID string) ([]domain.LifecycleTask, error) {
	return s.tasks, s.err
}

func (s *stubTaskService) Complete(ctx context.Context, taskID string, completed bool, notes string, caller domain.Caller) (*domain.LifecycleTask, error) {
	return s.task, s.err
}

func doRequest(t *testing.T, router *mux.Router, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPersonHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		serviceErr error
		wantStatus int
	}{
		{
			name: "created",
			body: map[string]any{
				"first_name":  "Maya",
				"last_name":   "Okafor",
				"person_type": "student",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "dto_rejects_bad_person_type",
			body: map[string]any{
				"first_name":  "Maya",
				"last_name":   "Okafor",
				"person_type": "contractor",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing_name_rejected",
			body: map[string]any{
				"person_type": "student",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "service_validation_maps_to_400",
			body: map[string]any{
				"first_name":  "Maya",
				"last_name":   "Okafor",
				"person_type": "student",
			},
			serviceErr: fmt.Errorf("%w: nope", domain.ErrValidation),
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown_error_maps_to_500",
			body: map[string]any{
				"first_name":  "Maya",
				"last_name":   "Okafor",
				"person_type": "student",
			},
			serviceErr: fmt.Errorf("connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubPersonService{
				person: &domain.Person{ID: "p-1", Identifier: "STU-1a2b3c4d"},
				err:    tt.serviceErr,
			}
			h := handler.NewPersonHandler(service)
			router := mux.NewRouter()
			router.HandleFunc("/api/people", h.Create).Methods(http.MethodPost)

			rec := doRequest(t, router, http.MethodPost, "/api/people", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestPersonHandler_Get_NotFound(t *testing.T) {
	service := &stubPersonService{err: fmt.Errorf("%w: person p-9", domain.ErrNotFound)}
	h := handler.NewPersonHandler(service)
	router := mux.NewRouter()
	router.HandleFunc("/api/people/{id}", h.Get).Methods(http.MethodGet)

	rec := doRequest(t, router, http.MethodGet, "/api/people/p-9", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTaskHandler_Complete(t *testing.T) {
	tests := []struct {
		name       string
		body       map[string]any
		serviceErr error
		wantStatus int
	}{
		{
			name:       "completed",
			body:       map[string]any{"completed": true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "forbidden_maps_to_403",
			body:       map[string]any{"completed": true},
			serviceErr: fmt.Errorf("%w: only IT staff may complete tasks", domain.ErrForbidden),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "uncompleting_maps_to_400",
			body:       map[string]any{"completed": false},
			serviceErr: fmt.Errorf("%w: completed must be set to true", domain.ErrValidation),
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubTaskService{
				task: &domain.LifecycleTask{ID: "t-1", Completed: true},
				err:  tt.serviceErr,
			}
			h := handler.NewTaskHandler(service)
			router := mux.NewRouter()
			router.HandleFunc("/api/lifecycle-tasks/{id}", h.Complete).Methods(http.MethodPut)

			rec := doRequest(t, router, http.MethodPut, "/api/lifecycle-tasks/t-1", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestTaskHandler_Complete_MalformedBody(t *testing.T) {
	h := handler.NewTaskHandler(&stubTaskService{})
	router := mux.NewRouter()
	router.HandleFunc("/api/lifecycle-tasks/{id}", h.Complete).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/api/lifecycle-tasks/t-1", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
