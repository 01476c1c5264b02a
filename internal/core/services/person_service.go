package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

type PersonService struct {
	people ports.PersonRepository
}

var _ ports.PersonService = (*PersonService)(nil)

func NewPersonService(people ports.PersonRepository) *PersonService {
	return &PersonService{people: people}
}

// newIdentifier builds the external identifier, e.g. "STU-1a2b3c4d".
// The uuid fragment keeps identifiers unique without a counter table.
func newIdentifier(personType domain.PersonType) string {
	return fmt.Sprintf("%s-%s", personType.IdentifierPrefix(), uuid.NewString()[:8])
}

func (s *PersonService) Create(
	ctx context.Context,
	firstName, lastName, personType string,
	startDate, endDate *time.Time,
	notes string,
) (*domain.Person, error) {
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: first name and last name are required", domain.ErrValidation)
	}
	pt, err := domain.ParsePersonType(personType)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	person := domain.Person{
		ID:         uuid.NewString(),
		Identifier: newIdentifier(pt),
		FirstName:  firstName,
		LastName:   lastName,
		PersonType: pt,
		Status:     domain.PersonOnboarding,
		StartDate:  startDate,
		EndDate:    endDate,
		Notes:      notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	audit := domain.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityPerson,
		EntityID:   person.ID,
		Action:     domain.AuditCreated,
		NewValue:   string(person.Status),
		ChangedBy:  "system",
		ChangedAt:  now,
	}

	if err := s.people.Create(ctx, person, audit); err != nil {
		return nil, err
	}
	return &person, nil
}

func (s *PersonService) Get(ctx context.Context, id string) (*domain.Person, error) {
	return s.people.GetByID(ctx, id)
}

func (s *PersonService) List(ctx context.Context, filter domain.PersonFilter) ([]domain.Person, error) {
	return s.people.List(ctx, filter)
}

func (s *PersonService) Update(ctx context.Context, id string, upd domain.PersonUpdate) (*domain.Person, error) {
	person, err := s.people.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := person.Status

	if upd.FirstName != nil && *upd.FirstName != "" {
		person.FirstName = *upd.FirstName
	}
	if upd.LastName != nil && *upd.LastName != "" {
		person.LastName = *upd.LastName
	}
	if upd.Status != nil {
		status, err := domain.ParsePersonStatus(*upd.Status)
		if err != nil {
			return nil, err
		}
		person.Status = status
	}
	if upd.EndDate != nil {
		person.EndDate = upd.EndDate
	}
	if upd.Notes != nil {
		person.Notes = *upd.Notes
	}

	now := time.Now().UTC()
	person.UpdatedAt = now

	action := domain.AuditUpdated
	if person.Status != oldStatus {
		action = domain.AuditStatusChanged
	}
	audit := domain.AuditEntry{
		ID:         uuid.NewString(),
		EntityType: domain.EntityPerson,
		EntityID:   person.ID,
		Action:     action,
		OldValue:   string(oldStatus),
		NewValue:   string(person.Status),
		ChangedBy:  "system",
		ChangedAt:  now,
	}

	if err := s.people.Update(ctx, *person, audit); err != nil {
		return nil, err
	}
	return person, nil
}
