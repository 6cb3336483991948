package service

import "errors"

// Kind classifies a business failure
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindUnauthenticated
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a failure the caller is allowed to see. Any other error returned
// by a service is an internal failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf reports the kind of err if it is a service Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

var (
	errAuthRequired       = newError(KindUnauthenticated, "authentication required")
	errInvalidCredentials = newError(KindUnauthenticated, "invalid email or password")
	errTodoNotFound       = newError(KindNotFound, "todo not found")
	errTodoForbidden      = newError(KindForbidden, "you do not have access to this todo")
	errTitleRequired      = newError(KindValidation, "title is required")
)
