package stalls

// Size categorizes a stall's floor space
type Size string

const (
	SizeSmall  Size = "SMALL"
	SizeMedium Size = "MEDIUM"
	SizeLarge  Size = "LARGE"
)

func IsValidSize(size string) bool {
	switch Size(size) {
	case SizeSmall, SizeMedium, SizeLarge:
		return true
	default:
		return false
	}
}

// Status is the server-side availability state of a stall
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"
	StatusReserved    Status = "RESERVED"
	StatusUnavailable Status = "UNAVAILABLE"
)

func IsValidStatus(status string) bool {
	switch Status(status) {
	case StatusAvailable, StatusReserved, StatusUnavailable:
		return true
	default:
		return false
	}
}
