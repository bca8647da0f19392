package reservations

import "errors"

var (
	ErrInvalidSelection  = errors.New("selection must contain between 1 and the maximum number of distinct stalls")
	ErrStallNotFound     = errors.New("one or more selected stalls do not exist")
	ErrStallUnavailable  = errors.New("one or more selected stalls are not available")
	ErrInvalidDate       = errors.New("reservation date cannot be in the past")
	ErrInvalidTransition = errors.New("reservation status does not allow this transition")
	ErrInvalidState      = errors.New("reservation is not in the required state for this operation")
	ErrNotFound          = errors.New("reservation not found")
	ErrForbidden         = errors.New("reservation belongs to another user")
)

// Machine-readable codes carried in the error payload of API responses.
// Clients map them back to the sentinel errors above.
const (
	CodeInvalidSelection  = "INVALID_SELECTION"
	CodeStallNotFound     = "STALL_NOT_FOUND"
	CodeStallUnavailable  = "STALL_UNAVAILABLE"
	CodeInvalidDate       = "INVALID_DATE"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInvalidState      = "INVALID_STATE"
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
)

// ErrorCode returns the wire code for a sentinel error, or "" for unknown errors
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSelection):
		return CodeInvalidSelection
	case errors.Is(err, ErrStallNotFound):
		return CodeStallNotFound
	case errors.Is(err, ErrStallUnavailable):
		return CodeStallUnavailable
	case errors.Is(err, ErrInvalidDate):
		return CodeInvalidDate
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrInvalidState):
		return CodeInvalidState
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return ""
	}
}

// FromErrorCode maps a wire code back to its sentinel error, or nil when unknown
func FromErrorCode(code string) error {
	switch code {
	case CodeInvalidSelection:
		return ErrInvalidSelection
	case CodeStallNotFound:
		return ErrStallNotFound
	case CodeStallUnavailable:
		return ErrStallUnavailable
	case CodeInvalidDate:
		return ErrInvalidDate
	case CodeInvalidTransition:
		return ErrInvalidTransition
	case CodeInvalidState:
		return ErrInvalidState
	case CodeNotFound:
		return ErrNotFound
	case CodeForbidden:
		return ErrForbidden
	default:
		return nil
	}
}
