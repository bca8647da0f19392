package stalls

import (
	"time"

	"github.com/google/uuid"
)

// StallResponse is the catalog view returned to portals.
// IsAvailable is derived from Status so clients never branch on the enum.
type StallResponse struct {
	ID          uuid.UUID `json:"id"`
	StallNumber string    `json:"stall_number"`
	StallName   string    `json:"stall_name"`
	Size        Size      `json:"size"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Status      Status    `json:"status"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func ToStallResponse(stall *Stall) StallResponse {
	return StallResponse{
		ID:          stall.ID,
		StallNumber: stall.StallNumber,
		StallName:   stall.StallName,
		Size:        stall.Size,
		Location:    stall.Location,
		Description: stall.Description,
		Price:       stall.Price,
		Status:      stall.Status,
		IsAvailable: stall.IsAvailable(),
		CreatedAt:   stall.CreatedAt,
		UpdatedAt:   stall.UpdatedAt,
	}
}

func ToStallResponses(list []Stall) []StallResponse {
	responses := make([]StallResponse, 0, len(list))
	for i := range list {
		responses = append(responses, ToStallResponse(&list[i]))
	}
	return responses
}

// StallReservationSummary describes the reservation currently holding a stall.
// A nil summary means the stall has no active reservation.
type StallReservationSummary struct {
	ReservationID   uuid.UUID `json:"reservation_id"`
	UserID          uuid.UUID `json:"user_id"`
	Status          string    `json:"status"`
	ReservationDate time.Time `json:"reservation_date"`
	VendorName      string    `json:"vendor_name"`
	VendorEmail     string    `json:"vendor_email"`
	BusinessName    string    `json:"business_name,omitempty"`
}

// StallStatistics aggregates catalog counts for the staff dashboard
type StallStatistics struct {
	Total       int64            `json:"total"`
	Available   int64            `json:"available"`
	Reserved    int64            `json:"reserved"`
	Unavailable int64            `json:"unavailable"`
	BySize      map[string]int64 `json:"by_size"`
}
