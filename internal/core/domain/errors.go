package domain

import "errors"

// Sentinel errors shared across the core. Services wrap these with
// fmt.Errorf("%w: ...") so handlers can map them to HTTP statuses with
// errors.Is while keeping the detail for logs.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
)
