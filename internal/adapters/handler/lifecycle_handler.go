package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oakvale-college/lifecycle-service/internal/adapters/middleware"
	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

type LifecycleHandler struct {
	lifecycleService ports.LifecycleService
}

func NewLifecycleHandler(lifecycleService ports.LifecycleService) *LifecycleHandler {
	return &LifecycleHandler{lifecycleService: lifecycleService}
}

type SubmitRequestRequest struct {
	PersonID      string    `json:"person_id" validate:"required,uuid4"`
	RequestType   string    `json:"request_type" validate:"required,oneof=onboard offboard"`
	EffectiveDate time.Time `json:"effective_date" validate:"required"`
	Notes         string    `json:"notes,omitempty" validate:"max=2000"`
}

type UpdateRequestRequest struct {
	Status        *string    `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed"`
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
	Notes         *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type LinkTicketRequest struct {
	TicketID   string `json:"ticket_id" validate:"required,max=64"`
	TicketType string `json:"ticket_type,omitempty" validate:"max=32"`
}

type RequestListResponse struct {
	Requests []domain.LifecycleRequest `json:"requests"`
	Page     int                       `json:"page"`
}

func (h *LifecycleHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	request, err := h.lifecycleService.Submit(r.Context(), req.PersonID, req.RequestType, string(caller.Role), req.EffectiveDate, req.Notes, caller.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, request)
}

func (h *LifecycleHandler) Get(w http.ResponseWriter, r *http.Request) {
	request, err := h.lifecycleService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func (h *LifecycleHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := pagination(r)
	filter := domain.RequestFilter{
		PersonID:    q.Get("personId"),
		RequestType: domain.RequestType(q.Get("type")),
		Status:      domain.RequestStatus(q.Get("status")),
		Page:        page,
		PageSize:    pageSize,
	}

	caller := middleware.CallerFromContext(r.Context())
	requests, err := h.lifecycleService.List(r.Context(), filter, caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, RequestListResponse{Requests: requests, Page: page})
}

func (h *LifecycleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	request, err := h.lifecycleService.Update(r.Context(), mux.Vars(r)["id"], domain.RequestUpdate{
		Status:        req.Status,
		EffectiveDate: req.EffectiveDate,
		Notes:         req.Notes,
	}, caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, request)
}

func (h *LifecycleHandler) LinkTicket(w http.ResponseWriter, r *http.Request) {
	var req LinkTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	caller := middleware.CallerFromContext(r.Context())
	link, err := h.lifecycleService.LinkTicket(r.Context(), mux.Vars(r)["id"], req.TicketID, req.TicketType, caller)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, link)
}
