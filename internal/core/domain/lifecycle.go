package domain

import (
	"fmt"
	"time"
)

type RequestType string

const (
	RequestOnboard  RequestType = "onboard"
	RequestOffboard RequestType = "offboard"
)

func ParseRequestType(s string) (RequestType, error) {
	switch RequestType(s) {
	case RequestOnboard, RequestOffboard:
		return RequestType(s), nil
	}
	return "", fmt.Errorf("%w: request type must be 'onboard' or 'offboard'", ErrValidation)
}

type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestInProgress RequestStatus = "in_progress"
	RequestCompleted  RequestStatus = "completed"
)

func ParseRequestStatus(s string) (RequestStatus, error) {
	switch RequestStatus(s) {
	case RequestPending, RequestInProgress, RequestCompleted:
		return RequestStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown request status %q", ErrValidation, s)
}

type TaskType string

const (
	TaskAssignDevice TaskType = "assign_device"
	TaskReturnDevice TaskType = "return_device"
	TaskIssueBadge   TaskType = "issue_badge"
	TaskCollectKeys  TaskType = "collect_keys"
)

type LifecycleRequest struct {
	ID            string          `json:"id"`
	PersonID      string          `json:"person_id"`
	Person        *Person         `json:"person,omitempty"`
	RequestType   RequestType     `json:"request_type"`
	Status        RequestStatus   `json:"status"`
	SubmittedBy   string          `json:"submitted_by"`
	SubmittedRole Role            `json:"submitted_role"`
	EffectiveDate time.Time       `json:"effective_date"`
	Notes         string          `json:"notes,omitempty"`
	Tasks         []LifecycleTask `json:"tasks,omitempty"`
	TicketLinks   []TicketLink    `json:"ticket_links,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type LifecycleTask struct {
	ID          string     `json:"id"`
	RequestID   string     `json:"request_id"`
	TaskType    TaskType   `json:"task_type"`
	Required    bool       `json:"required"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

type TicketLink struct {
	ID         string    `json:"id"`
	RequestID  string    `json:"request_id"`
	TicketID   string    `json:"ticket_id"`
	TicketType string    `json:"ticket_type"`
	CreatedAt  time.Time `json:"created_at"`
}

// taskTemplate is one entry of the fixed per-request-type checklist.
type taskTemplate struct {
	taskType TaskType
	required bool
}

var taskTemplates = map[RequestType][]taskTemplate{
	RequestOnboard: {
		{TaskAssignDevice, true},
		{TaskIssueBadge, false},
		{TaskCollectKeys, false},
	},
	RequestOffboard: {
		{TaskReturnDevice, true},
		{TaskCollectKeys, true},
	},
}

// DefaultTasks returns the fresh task checklist for a new request of the
// given type. All tasks start incomplete.
func DefaultTasks(requestType RequestType) []LifecycleTask {
	tmpl := taskTemplates[requestType]
	tasks := make([]LifecycleTask, 0, len(tmpl))
	for _, t := range tmpl {
		tasks = append(tasks, LifecycleTask{
			TaskType: t.taskType,
			Required: t.required,
		})
	}
	return tasks
}

// RequestFilter narrows request listings. Zero values mean "no filter".
// SubmittedBy is set by the service when the caller is not elevated.
type RequestFilter struct {
	PersonID    string
	RequestType RequestType
	Status      RequestStatus
	SubmittedBy string
	Page        int
	PageSize    int
}

// RequestUpdate carries the optional fields of a request update. Nil
// pointers leave the stored value untouched. Status is the raw caller
// value; the service parses it against the closed status set.
type RequestUpdate struct {
	Status        *string
	EffectiveDate *time.Time
	Notes         *string
}
