package database

import (
	"bookfair/internal/reservations"
	"bookfair/internal/stalls"
	"bookfair/internal/users"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&users.User{},
		&stalls.Stall{},
		&reservations.Reservation{},
		&reservations.ReservationStall{},
	)
}
