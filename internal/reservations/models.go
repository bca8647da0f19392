package reservations

import (
	"time"

	"bookfair/internal/stalls"
	"bookfair/internal/users"

	"github.com/google/uuid"
)

// Reservation holds one vendor's claim on up to the configured maximum of stalls
type Reservation struct {
	ID              uuid.UUID          `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID          uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;index"`
	User            users.User         `json:"user" gorm:"foreignKey:UserID"`
	ReservationDate time.Time          `json:"reservation_date" gorm:"not null"`
	Status          Status             `json:"status" gorm:"not null;default:'PENDING'"`
	TotalAmount     float64            `json:"total_amount" gorm:"not null"`
	Stalls          []ReservationStall `json:"stalls" gorm:"foreignKey:ReservationID"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	ConfirmedAt     *time.Time         `json:"confirmed_at,omitempty"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
}

func (Reservation) TableName() string {
	return "reservations"
}

func (r *Reservation) IsPending() bool {
	return r.Status == StatusPending
}

func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// StallIDs returns the catalog ids of the snapshotted stalls
func (r *Reservation) StallIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Stalls))
	for _, s := range r.Stalls {
		ids = append(ids, s.StallID)
	}
	return ids
}

// ReservationStall is a frozen snapshot of a stall at reservation time.
// Later catalog edits never change what the vendor agreed to pay.
type ReservationStall struct {
	ID            uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ReservationID uuid.UUID   `json:"reservation_id" gorm:"type:uuid;not null;index"`
	StallID       uuid.UUID   `json:"stall_id" gorm:"type:uuid;not null;index"`
	StallNumber   string      `json:"stall_number" gorm:"not null"`
	StallName     string      `json:"stall_name" gorm:"not null"`
	Size          stalls.Size `json:"size" gorm:"not null"`
	Location      string      `json:"location" gorm:"not null"`
	Price         float64     `json:"price" gorm:"not null"`
	CreatedAt     time.Time   `json:"created_at"`
}

func (ReservationStall) TableName() string {
	return "reservation_stalls"
}
