package bookings

import (
	"time"

	"tickethub/internal/tickets"
)

type BookingResponse struct {
	BookingID   string       `json:"booking_id"`
	Status      string       `json:"status"`
	ShowtimeID  string       `json:"showtime_id"`
	MovieTitle  string       `json:"movie_title,omitempty"`
	TheaterName string       `json:"theater_name,omitempty"`
	ShowDate    string       `json:"show_date,omitempty"`
	ShowTime    string       `json:"show_time,omitempty"`
	Seats       []string     `json:"seats"`
	TotalAmount float64      `json:"total_amount"`
	Payment     *PaymentInfo `json:"payment,omitempty"`
	Ticket      *tickets.Ticket `json:"ticket,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	ConfirmedAt *time.Time   `json:"confirmed_at,omitempty"`
}

type PaymentInfo struct {
	PaymentID     string `json:"payment_id"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Currency      string `json:"currency"`
}
