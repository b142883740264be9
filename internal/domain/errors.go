package domain

import "errors"

// Error kinds. Services wrap them with context (fmt.Errorf("%w: ...")) and the
// transport maps each kind to one status code.
var (
	ErrInvalid      = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("precondition failed")
	ErrUnavailable  = errors.New("unavailable")
)
