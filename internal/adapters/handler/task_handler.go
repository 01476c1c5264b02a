package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oakvale-college/lifecycle-service/internal/adapters/middleware"
	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type CompleteTaskRequest struct {
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty" validate:"max=2000"`
}

type TaskListResponse struct {
	Tasks []domain.LifecycleTask `json:"tasks"`
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ListByRequest(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListByRequest(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, TaskListResponse{Tasks: tasks})
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	task, err := h.taskService.Complete(r.Context(), mux.Vars(r)["id"], req.Completed, req.Notes, caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}
