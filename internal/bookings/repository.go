package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBookingNotFound = errors.New("booking not found")

type Repository interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	GetBookingByID(ctx context.Context, id string) (*Booking, error)
	MarkConfirmed(ctx context.Context, booking *Booking) error
	MarkFailed(ctx context.Context, id, reason string) error

	// BookedSeats lists the durably sold seat ids of a showtime. It also
	// serves the hold manager's availability pre-check.
	BookedSeats(ctx context.Context, showtimeID string) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBooking(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) GetBookingByID(ctx context.Context, id string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// MarkConfirmed flips the booking to CONFIRMED and writes one row per sold
// seat, all in one transaction. Seat rows insert with ON CONFLICT DO
// NOTHING so the whole call is safe to retry.
func (r *repository) MarkConfirmed(ctx context.Context, booking *Booking) error {
	now := time.Now().UTC()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":            string(StatusConfirmed),
			"payment_id":        booking.PaymentID,
			"order_id":          booking.OrderID,
			"transaction_id":    booking.TransactionID,
			"payment_signature": booking.PaymentSignature,
			"confirmed_at":      now,
			"updated_at":        now,
		}
		if err := tx.Model(&Booking{}).Where("id = ?", booking.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to confirm booking %s: %w", booking.ID, err)
		}

		seatRows := make([]BookedSeat, 0, len(booking.Seats))
		for _, seatID := range booking.Seats {
			seatRows = append(seatRows, BookedSeat{
				BookingID:  booking.ID,
				ShowtimeID: booking.ShowtimeID,
				SeatID:     seatID,
			})
		}
		if len(seatRows) == 0 {
			return nil
		}

		err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seatRows).Error
		if err != nil {
			return fmt.Errorf("failed to persist booked seats for %s: %w", booking.ID, err)
		}
		return nil
	})
}

func (r *repository) MarkFailed(ctx context.Context, id, reason string) error {
	return r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         string(StatusFailed),
			"failure_reason": reason,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *repository) BookedSeats(ctx context.Context, showtimeID string) ([]string, error) {
	var seatIDs []string
	err := r.db.WithContext(ctx).
		Model(&BookedSeat{}).
		Where("showtime_id = ?", showtimeID).
		Pluck("seat_id", &seatIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load booked seats for showtime %s: %w", showtimeID, err)
	}
	return seatIDs, nil
}
