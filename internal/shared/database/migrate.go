package database

import (
	"tickethub/internal/bookings"
	"tickethub/internal/catalog"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Movie{},
		&catalog.Theater{},
		&catalog.Showtime{},
		&bookings.Booking{},
		&bookings.BookedSeat{},
	)
}
