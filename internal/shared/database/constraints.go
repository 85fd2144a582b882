package database

import (
	"gorm.io/gorm"
)

// MigrateConstraints adds critical database constraints for concurrency control
func MigrateConstraints(db *gorm.DB) error {
	// Each seat of a showtime may be sold exactly once
	err := db.Exec(`
		ALTER TABLE booked_seats
		ADD CONSTRAINT IF NOT EXISTS unique_seat_per_showtime
		UNIQUE (showtime_id, seat_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for seat availability lookups by showtime
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_booked_seats_showtime_id
		ON booked_seats (showtime_id);
	`).Error
	if err != nil {
		return err
	}

	// Index for resolving the seats of one booking
	err = db.Exec(`
		CREATE INDEX CONCURRENTLY IF NOT EXISTS idx_booked_seats_booking_id
		ON booked_seats (booking_id);
	`).Error
	if err != nil {
		return err
	}

	return nil
}
