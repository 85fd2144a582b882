package notifications

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// EmailService delivers a booking notification to its recipient.
type EmailService interface {
	SendNotification(ctx context.Context, notification *BookingNotification) error
}

// MockEmailService writes the email to the application log instead of an
// SMTP relay. Delivery through a real provider is a deployment concern;
// everything upstream (queueing, retries, templates) behaves identically.
type MockEmailService struct {
	// SimulatedLatency mimics provider round-trip time. Zero disables it.
	SimulatedLatency time.Duration
}

func NewMockEmailService() EmailService {
	return &MockEmailService{}
}

func (m *MockEmailService) SendNotification(ctx context.Context, notification *BookingNotification) error {
	if notification.RecipientEmail == "" {
		return fmt.Errorf("notification %s has no recipient email", notification.ID)
	}

	if m.SimulatedLatency > 0 {
		select {
		case <-time.After(m.SimulatedLatency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	log.Printf("📧 ===== EMAIL SENT =====")
	log.Printf("📧 To: %s", notification.RecipientEmail)
	log.Printf("📧 Subject: %s", notification.Subject)
	log.Printf("📧 %s", m.renderBody(notification))
	log.Printf("📧 =======================")

	return nil
}

func (m *MockEmailService) renderBody(n *BookingNotification) string {
	switch n.Type {
	case NotificationTypeBookingConfirmed:
		return fmt.Sprintf(
			"Booking Confirmed! Booking ID: %s | Movie: %s | Theater: %s | Date: %s | Time: %s | Seats: %s | Amount Paid: ₹%.2f",
			n.BookingID, n.MovieTitle, n.TheaterName, n.ShowDate, n.ShowTime,
			strings.Join(n.Seats, ", "), n.TotalAmount)
	case NotificationTypeBookingFailed:
		reason := ""
		if n.LastError != nil {
			reason = " Reason: " + *n.LastError
		}
		return fmt.Sprintf("Your booking %s for %s could not be completed.%s", n.BookingID, n.MovieTitle, reason)
	default:
		return fmt.Sprintf("Update on booking %s", n.BookingID)
	}
}
