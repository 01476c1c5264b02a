package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

type PersonHandler struct {
	personService ports.PersonService
}

func NewPersonHandler(personService ports.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

type CreatePersonRequest struct {
	FirstName  string     `json:"first_name" validate:"required,max=100"`
	LastName   string     `json:"last_name" validate:"required,max=100"`
	PersonType string     `json:"person_type" validate:"required,oneof=student staff"`
	StartDate  *time.Time `json:"start_date,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Notes      string     `json:"notes,omitempty" validate:"max=2000"`
}

type UpdatePersonRequest struct {
	FirstName *string    `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string    `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Status    *string    `json:"status,omitempty" validate:"omitempty,oneof=onboarding active offboarding offboarded"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Notes     *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

type PersonListResponse struct {
	People []domain.Person `json:"people"`
	Page   int             `json:"page"`
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	person, err := h.personService.Create(r.Context(), req.FirstName, req.LastName, req.PersonType, req.StartDate, req.EndDate, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, person)
}

func (h *PersonHandler) Get(w http.ResponseWriter, r *http.Request) {
	person, err := h.personService.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, person)
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := pagination(r)
	filter := domain.PersonFilter{
		PersonType: domain.PersonType(q.Get("type")),
		Status:     domain.PersonStatus(q.Get("status")),
		Search:     q.Get("search"),
		Page:       page,
		PageSize:   pageSize,
	}

	people, err := h.personService.List(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, PersonListResponse{People: people, Page: page})
}

func (h *PersonHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	person, err := h.personService.Update(r.Context(), mux.Vars(r)["id"], domain.PersonUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Status:    req.Status,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, person)
}
