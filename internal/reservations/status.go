package reservations

// Status is the lifecycle state of a reservation
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

func IsValidStatus(status string) bool {
	switch Status(status) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanConfirm reports whether the status allows the confirm transition
func (s Status) CanConfirm() bool {
	return s == StatusPending
}

// CanCancel reports whether the status allows the cancel transition.
// Cancelling is allowed from both pending and confirmed.
func (s Status) CanCancel() bool {
	return s == StatusPending || s == StatusConfirmed
}
