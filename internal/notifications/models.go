package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeBookingFailed    NotificationType = "BOOKING_FAILED"
)

// Only email channel since that's all that's implemented
type NotificationChannel string

const (
	NotificationChannelEmail NotificationChannel = "EMAIL"
)

type NotificationStatus string

const (
	NotificationStatusPending  NotificationStatus = "PENDING"
	NotificationStatusQueued   NotificationStatus = "QUEUED"
	NotificationStatusSending  NotificationStatus = "SENDING"
	NotificationStatusSent     NotificationStatus = "SENT"
	NotificationStatusFailed   NotificationStatus = "FAILED"
	NotificationStatusRetrying NotificationStatus = "RETRYING"
)

// BookingNotification carries everything the email template needs, so the
// consumer never has to call back into the API database.
type BookingNotification struct {
	ID   uuid.UUID        `json:"id"`
	Type NotificationType `json:"type"`

	RecipientEmail string `json:"recipient_email"`
	RecipientPhone string `json:"recipient_phone,omitempty"`

	Subject string `json:"subject"`

	// Booking context
	BookingID   string   `json:"booking_id"`
	ShowtimeID  string   `json:"showtime_id"`
	MovieTitle  string   `json:"movie_title"`
	TheaterName string   `json:"theater_name"`
	ShowDate    string   `json:"show_date"`
	ShowTime    string   `json:"show_time"`
	Seats       []string `json:"seats"`
	TotalAmount float64  `json:"total_amount"`

	// Status tracking
	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	MaxRetries int                `json:"max_retries"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

// NewBookingConfirmation builds a confirmation notification ready to publish.
func NewBookingConfirmation(email, phone string) *BookingNotification {
	return &BookingNotification{
		ID:             uuid.New(),
		Type:           NotificationTypeBookingConfirmed,
		RecipientEmail: email,
		RecipientPhone: phone,
		Subject:        "Your TicketHub booking is confirmed",
		Status:         NotificationStatusPending,
		MaxRetries:     3,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
}

// Utility methods
func (bn *BookingNotification) GetPartitionKey() string {
	// Partition by booking so retries of the same booking stay ordered
	return bn.BookingID
}

func (bn *BookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(bn)
}

func (bn *BookingNotification) ShouldRetry() bool {
	return bn.RetryCount < bn.MaxRetries && bn.Status == NotificationStatusFailed
}

func (bn *BookingNotification) MarkSent() {
	now := time.Now()
	bn.Status = NotificationStatusSent
	bn.SentAt = &now
	bn.UpdatedAt = now
}

func (bn *BookingNotification) MarkFailed(err error) {
	now := time.Now()
	bn.Status = NotificationStatusFailed
	bn.UpdatedAt = now

	errorStr := err.Error()
	bn.LastError = &errorStr
}

func (bn *BookingNotification) IncrementRetry() {
	bn.RetryCount++
	bn.UpdatedAt = time.Now()
	if bn.ShouldRetry() {
		bn.Status = NotificationStatusRetrying
	}
}
