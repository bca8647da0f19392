package stalls

import (
	"time"

	"github.com/google/uuid"
)

// Stall is one rentable spot on the fair floor
type Stall struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	StallNumber string    `json:"stall_number" gorm:"uniqueIndex;not null"`
	StallName   string    `json:"stall_name" gorm:"not null"`
	Size        Size      `json:"size" gorm:"not null"`
	Location    string    `json:"location" gorm:"not null"`
	Description string    `json:"description"`
	Price       float64   `json:"price" gorm:"not null"`
	Status      Status    `json:"status" gorm:"not null;default:'AVAILABLE'"`
	CreatedBy   uuid.UUID `json:"created_by" gorm:"type:uuid"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Stall) TableName() string {
	return "stalls"
}

// IsAvailable reports whether the stall can be added to a new reservation
func (s *Stall) IsAvailable() bool {
	return s.Status == StatusAvailable
}

// MarkReserved flips the stall into the reserved state
func (s *Stall) MarkReserved() {
	s.Status = StatusReserved
}

// MarkAvailable returns the stall to the pool
func (s *Stall) MarkAvailable() {
	s.Status = StatusAvailable
}
