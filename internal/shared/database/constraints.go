package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// A stall can appear at most once in any non-cancelled reservation
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS unique_stall_per_reservation
		ON reservation_stalls (reservation_id, stall_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for per-stall reservation lookups
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservation_stalls_stall_id
		ON reservation_stalls (stall_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for listing a vendor's reservations
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_reservations_user_id
		ON reservations (user_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
