package services

import (
	"errors"

	"questbridge-api/models"
)

type ErrorKind string

const (
	KindNotFound        ErrorKind = "not_found"
	KindForbidden       ErrorKind = "forbidden"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindConflict        ErrorKind = "conflict"
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindInvalidState    ErrorKind = "invalid_state"
)

// Error is a domain failure that callers are expected to handle. Two errors
// match under errors.Is when their kinds are equal.
type Error struct {
	Kind    ErrorKind
	Message string
	// Status carries the join request's current status when a participation
	// check is refused.
	Status models.JoinRequestStatus
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "resource not found"}
	ErrForbidden       = &Error{Kind: KindForbidden, Message: "access denied"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
	ErrConflict        = &Error{Kind: KindConflict, Message: "conflict"}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument, Message: "invalid argument"}
	ErrInvalidState    = &Error{Kind: KindInvalidState, Message: "invalid state"}
)

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func notFound(message string) *Error        { return newError(KindNotFound, message) }
func forbidden(message string) *Error       { return newError(KindForbidden, message) }
func unauthorized(message string) *Error    { return newError(KindUnauthorized, message) }
func conflict(message string) *Error        { return newError(KindConflict, message) }
func invalidArgument(message string) *Error { return newError(KindInvalidArgument, message) }
func invalidState(message string) *Error    { return newError(KindInvalidState, message) }

// AsError extracts the domain error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func requireRole(identity models.Identity, role models.Role) error {
	if identity.Role != role {
		return forbidden("this action requires the " + string(role) + " role")
	}
	return nil
}
