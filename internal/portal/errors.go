package portal

import (
	"errors"
	"fmt"
)

// Guard failures resolved locally by the selection set and the workflow.
// They never reach the network layer.
var (
	ErrSelectionLimit    = errors.New("selection limit reached")
	ErrStallNotAvailable = errors.New("stall is not available for selection")
	ErrEmptySelection    = errors.New("at least one stall must be selected")
	ErrTermsNotAccepted  = errors.New("terms and conditions must be accepted")
	ErrConfirmInFlight   = errors.New("a confirmation request is already in progress")
	ErrWorkflowComplete  = errors.New("booking workflow already completed")
)

// ServiceError is a backend failure that does not map to one of the
// known reservation sentinels. The resolver never absorbs these.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error (%d): %s", e.StatusCode, e.Message)
}
