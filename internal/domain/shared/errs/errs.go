package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure so transports can map it without knowing every sentinel.
var (
	NotFound     = errors.New("not found")
	Forbidden    = errors.New("forbidden")
	InvalidState = errors.New("invalid state")
	Conflict     = errors.New("conflict")
	Validation   = errors.New("validation failed")
)

var kinds = []error{NotFound, Forbidden, InvalidState, Conflict, Validation}

// Error is a sentinel bound to one of the kinds above.
type Error struct {
	kind  error
	msg   string
	cause error
}

func New(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Newf is New with a formatted message.
func Newf(kind error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under kind while keeping it reachable through errors.Is/As.
func Wrap(kind error, cause error, msg string) *Error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Is lets errors.Is match both the sentinel itself and its kind.
func (e *Error) Is(target error) bool {
	return target == e.kind
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the kind of err or nil when it is not classified.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName is the stable identifier of err's kind, "" when unclassified.
func KindName(err error) string {
	switch KindOf(err) {
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case InvalidState:
		return "invalid_state"
	case Conflict:
		return "conflict"
	case Validation:
		return "validation"
	default:
		return ""
	}
}

// KindByName reverses KindName.
func KindByName(name string) error {
	for _, kind := range kinds {
		if KindName(kind) == name {
			return kind
		}
	}
	return nil
}
