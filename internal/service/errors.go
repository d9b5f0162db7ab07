package service

import "errors"

// Error kinds. Handlers map these to HTTP statuses; services attach
// the user-facing message.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNoHalqaAssigned = errors.New("no halqa assigned")
)

// Error carries a user-facing message tagged with a kind.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func notFound(msg string) error     { return &Error{Kind: ErrNotFound, Msg: msg} }
func forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Msg: msg} }
func conflict(msg string) error     { return &Error{Kind: ErrConflict, Msg: msg} }
func unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Msg: msg} }

// ValidationError names the field that failed a boundary check.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}
