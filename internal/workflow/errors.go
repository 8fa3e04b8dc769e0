package workflow

import (
	"fmt"
	"strings"
)

// ErrorKind is the machine-readable classification of a rejected transition.
type ErrorKind string

const (
	ErrNoOpTransition           ErrorKind = "NO_OP_TRANSITION"
	ErrIllegalTransition        ErrorKind = "ILLEGAL_TRANSITION"
	ErrNoTechnicianSelected     ErrorKind = "NO_TECHNICIAN_SELECTED"
	ErrMissingLead              ErrorKind = "MISSING_LEAD"
	ErrDuplicateTechnician      ErrorKind = "DUPLICATE_TECHNICIAN"
	ErrIncompleteCompletionData ErrorKind = "INCOMPLETE_COMPLETION_DATA"
)

// Error is returned for every rejected proposal. All kinds are recoverable
// by the caller retrying with corrected input; none indicate a fault.
type Error struct {
	Kind   ErrorKind
	Detail string
	Fields []string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Detail, strings.Join(e.Fields, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Is matches on kind so callers can use errors.Is with sentinel values.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.Kind == e.Kind
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// AsError extracts a workflow Error from err, if it is one.
func AsError(err error) (*Error, bool) {
	wfErr, ok := err.(*Error)
	return wfErr, ok
}
