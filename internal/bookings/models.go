package bookings

import (
	"time"
)

// Booking is the durable record of a purchase attempt. It is created in
// PENDING before payment and moves to CONFIRMED or FAILED exactly once.
type Booking struct {
	ID          string   `gorm:"primaryKey;size:32" json:"id"`
	ShowtimeID  string   `gorm:"size:64;index;not null" json:"showtime_id"`
	SessionID   string   `gorm:"size:64;index" json:"session_id"`
	Seats       []string `gorm:"serializer:json" json:"seats"`
	Email       string   `gorm:"size:255;not null" json:"email"`
	Phone       string   `gorm:"size:20" json:"phone"`
	TotalAmount float64  `gorm:"not null" json:"total_amount"`

	Status        string `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'FAILED');default:'PENDING'" json:"status"`
	FailureReason string `gorm:"size:100" json:"failure_reason,omitempty"`

	// Payment receipt, set on confirmation
	PaymentID        string `gorm:"size:64" json:"payment_id,omitempty"`
	OrderID          string `gorm:"size:64" json:"order_id,omitempty"`
	TransactionID    string `gorm:"size:64" json:"transaction_id,omitempty"`
	PaymentSignature string `gorm:"size:128" json:"-"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	// Relationships
	BookedSeats []BookedSeat `json:"-" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// BookedSeat is one durably sold seat. The unique index over
// (showtime_id, seat_id) is the final guard against double selling.
type BookedSeat struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID  string    `gorm:"size:32;index;not null" json:"booking_id"`
	ShowtimeID string    `gorm:"size:64;not null;uniqueIndex:unique_seat_per_showtime" json:"showtime_id"`
	SeatID     string    `gorm:"size:8;not null;uniqueIndex:unique_seat_per_showtime" json:"seat_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for BookedSeat
func (BookedSeat) TableName() string {
	return "booked_seats"
}
