package reservations

import (
	"time"

	"github.com/google/uuid"
)

// ReservationResponse is the API view of a reservation
type ReservationResponse struct {
	ID              uuid.UUID                  `json:"id"`
	UserID          uuid.UUID                  `json:"user_id"`
	User            *ReservationUserResponse   `json:"user,omitempty"`
	ReservationDate time.Time                  `json:"reservation_date"`
	Status          Status                     `json:"status"`
	TotalAmount     float64                    `json:"total_amount"`
	Stalls          []ReservationStallResponse `json:"stalls"`
	CreatedAt       time.Time                  `json:"created_at"`
	ConfirmedAt     *time.Time                 `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time                 `json:"cancelled_at,omitempty"`
}

// ReservationUserResponse is the embedded vendor view
type ReservationUserResponse struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	BusinessName string    `json:"business_name,omitempty"`
	Email        string    `json:"email"`
}

// ReservationStallResponse is the snapshot view of a reserved stall
type ReservationStallResponse struct {
	StallID     uuid.UUID `json:"stall_id"`
	StallNumber string    `json:"stall_number"`
	StallName   string    `json:"stall_name"`
	Size        string    `json:"size"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
}

// ReservationListResponse wraps a paginated staff listing
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalCount   int64                 `json:"total_count"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"total_pages"`
}

func ToReservationResponse(r *Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		ReservationDate: r.ReservationDate,
		Status:          r.Status,
		TotalAmount:     r.TotalAmount,
		Stalls:          make([]ReservationStallResponse, 0, len(r.Stalls)),
		CreatedAt:       r.CreatedAt,
		ConfirmedAt:     r.ConfirmedAt,
		CancelledAt:     r.CancelledAt,
	}

	if r.User.ID != uuid.Nil {
		resp.User = &ReservationUserResponse{
			ID:           r.User.ID,
			FirstName:    r.User.FirstName,
			LastName:     r.User.LastName,
			BusinessName: r.User.BusinessName,
			Email:        r.User.Email,
		}
	}

	for _, s := range r.Stalls {
		resp.Stalls = append(resp.Stalls, ReservationStallResponse{
			StallID:     s.StallID,
			StallNumber: s.StallNumber,
			StallName:   s.StallName,
			Size:        string(s.Size),
			Location:    s.Location,
			Price:       s.Price,
		})
	}

	return resp
}

func ToReservationResponses(list []Reservation) []ReservationResponse {
	responses := make([]ReservationResponse, 0, len(list))
	for i := range list {
		responses = append(responses, ToReservationResponse(&list[i]))
	}
	return responses
}
