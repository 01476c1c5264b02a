package domain

import "fmt"

type Role string

const (
	RoleIT        Role = "it"
	RoleHR        Role = "hr"
	RoleEnrolment Role = "enrolment"
)

// ParseRole normalizes a role claim. "eo" is the short form enrolment
// officers carry in their tokens.
func ParseRole(s string) (Role, error) {
	switch s {
	case "it":
		return RoleIT, nil
	case "hr":
		return RoleHR, nil
	case "enrolment", "eo":
		return RoleEnrolment, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// Elevated reports whether the role bypasses ownership checks.
func (r Role) Elevated() bool {
	return r == RoleIT
}

// Caller is the authenticated identity an operation runs as.
type Caller struct {
	ID   string
	Role Role
}
