package reservations

import (
	"context"
	"errors"

	"bookfair/internal/stalls"

	"github.com/google/uuid"
)

// StallLookupAdapter implements stalls.ReservationLookup on top of the
// reservations repository. It keeps the stalls package free of a
// dependency on this one.
type StallLookupAdapter struct {
	repo Repository
}

func NewStallLookupAdapter(repo Repository) *StallLookupAdapter {
	return &StallLookupAdapter{repo: repo}
}

// GetActiveReservationForStall returns a summary of the reservation
// holding the stall, or nil when the stall has no active reservation.
func (a *StallLookupAdapter) GetActiveReservationForStall(ctx context.Context, stallID uuid.UUID) (*stalls.StallReservationSummary, error) {
	reservation, err := a.repo.GetActiveReservationForStall(ctx, stallID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &stalls.StallReservationSummary{
		ReservationID:   reservation.ID,
		UserID:          reservation.UserID,
		Status:          string(reservation.Status),
		ReservationDate: reservation.ReservationDate,
		VendorName:      reservation.User.FullName(),
		VendorEmail:     reservation.User.Email,
		BusinessName:    reservation.User.BusinessName,
	}, nil
}
