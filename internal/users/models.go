package users

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName    string    `json:"first_name" gorm:"not null"`
	LastName     string    `json:"last_name" gorm:"not null"`
	BusinessName string    `json:"business_name,omitempty"`
	Password     string    `json:"-" gorm:"not null"` // hide in json
	Role         Role      `json:"role" gorm:"not null;default:'VENDOR'"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns the display name used in notification emails
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleVendor), string(RoleStaff):
		return true
	default:
		return false
	}
}
