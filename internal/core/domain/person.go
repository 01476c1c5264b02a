package domain

import (
	"fmt"
	"time"
)

type PersonType string

const (
	PersonStudent PersonType = "student"
	PersonStaff   PersonType = "staff"
)

func ParsePersonType(s string) (PersonType, error) {
	switch PersonType(s) {
	case PersonStudent, PersonStaff:
		return PersonType(s), nil
	}
	return "", fmt.Errorf("%w: person type must be 'student' or 'staff'", ErrValidation)
}

// IdentifierPrefix returns the prefix used when generating external
// identifiers ("STU-xxxxxxxx" for students, "EMP-xxxxxxxx" for staff).
func (t PersonType) IdentifierPrefix() string {
	if t == PersonStudent {
		return "STU"
	}
	return "EMP"
}

type PersonStatus string

const (
	PersonOnboarding  PersonStatus = "onboarding"
	PersonActive      PersonStatus = "active"
	PersonOffboarding PersonStatus = "offboarding"
	PersonOffboarded  PersonStatus = "offboarded"
)

func ParsePersonStatus(s string) (PersonStatus, error) {
	switch PersonStatus(s) {
	case PersonOnboarding, PersonActive, PersonOffboarding, PersonOffboarded:
		return PersonStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown person status %q", ErrValidation, s)
}

type Person struct {
	ID         string       `json:"id"`
	Identifier string       `json:"identifier"`
	FirstName  string       `json:"first_name"`
	LastName   string       `json:"last_name"`
	PersonType PersonType   `json:"person_type"`
	Status     PersonStatus `json:"status"`
	StartDate  *time.Time   `json:"start_date,omitempty"`
	EndDate    *time.Time   `json:"end_date,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// PersonUpdate carries the optional fields of a person update. Nil
// pointers leave the stored value untouched. The identifier is immutable
// and has no update field on purpose.
type PersonUpdate struct {
	FirstName *string
	LastName  *string
	Status    *string
	EndDate   *time.Time
	Notes     *string
}

// PersonFilter narrows List queries. Zero values mean "no filter".
type PersonFilter struct {
	PersonType PersonType
	Status     PersonStatus
	Search     string
	Page       int
	PageSize   int
}
