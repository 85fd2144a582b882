package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"tickethub/internal/catalog"
	"tickethub/internal/holds"
	"tickethub/internal/notifications"
	"tickethub/internal/payments"
	"tickethub/internal/tickets"
	"tickethub/pkg/logger"
)

// HoldSource is the slice of the hold manager the booking flow needs.
type HoldSource interface {
	Get(holdID string) (holds.Info, error)
	ConvertHold(ctx context.Context, holdID, bookingID string) error
}

// ShowtimeSource resolves a showtime with its movie and theater.
type ShowtimeSource interface {
	GetShowtimeDetail(ctx context.Context, showtimeID string) (*catalog.ShowtimeDetail, error)
}

// Notifier queues the confirmation email. Always best-effort.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking notifications.BookingDetails) error
}

type ServiceConfig struct {
	// ConvenienceFeePerSeat is added on top of the ticket price for every
	// seat in the booking.
	ConvenienceFeePerSeat float64
	Currency              string
	PaymentTimeout        time.Duration

	// ConfirmRetries bounds the in-request persistence retries after a
	// successful payment. Further attempts continue in the background.
	ConfirmRetries int
	ConfirmBackoff time.Duration
}

type Service interface {
	CreateBooking(ctx context.Context, sessionID string, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*BookingResponse, error)
	GetTicket(ctx context.Context, bookingID string) (*tickets.Ticket, error)
}

type service struct {
	repo     Repository
	holds    HoldSource
	catalog  ShowtimeSource
	gateway  payments.Gateway
	issuer   *tickets.Issuer
	notifier Notifier
	cfg      ServiceConfig
	log      *logger.Logger
}

func NewService(repo Repository, holdSource HoldSource, showtimes ShowtimeSource,
	gateway payments.Gateway, issuer *tickets.Issuer, notifier Notifier, cfg ServiceConfig) Service {
	if cfg.ConfirmRetries <= 0 {
		cfg.ConfirmRetries = 3
	}
	if cfg.ConfirmBackoff <= 0 {
		cfg.ConfirmBackoff = 200 * time.Millisecond
	}
	if cfg.PaymentTimeout <= 0 {
		cfg.PaymentTimeout = 30 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &service{
		repo:     repo,
		holds:    holdSource,
		catalog:  showtimes,
		gateway:  gateway,
		issuer:   issuer,
		notifier: notifier,
		cfg:      cfg,
		log:      logger.GetDefault(),
	}
}

// CreateBooking runs the full purchase flow for a held set of seats:
// validate the hold, take payment with no locks held, convert the hold,
// persist, issue the ticket. Seats stay held on their original timer if
// payment fails, so the customer can retry.
func (s *service) CreateBooking(ctx context.Context, sessionID string, req CreateBookingRequest) (*BookingResponse, error) {
	hold, err := s.holds.Get(req.HoldID)
	if err != nil {
		return nil, err
	}
	if hold.SessionID != sessionID {
		// Treat another session's hold as unknown
		return nil, holds.ErrHoldNotFound
	}

	switch hold.Status {
	case holds.StatusActive:
		// proceed
	case holds.StatusExpired:
		return nil, holds.ErrHoldExpired
	case holds.StatusConverted:
		return nil, holds.ErrDuplicateBooking
	default:
		return nil, holds.ErrHoldNotActive
	}

	detail, err := s.catalog.GetShowtimeDetail(ctx, hold.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve showtime %s: %w", hold.ShowtimeID, err)
	}

	seatCount := len(hold.SeatIDs)
	totalAmount := detail.Showtime.Price*float64(seatCount) + s.cfg.ConvenienceFeePerSeat*float64(seatCount)

	bookingID, err := generateBookingID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking id: %w", err)
	}

	booking := &Booking{
		ID:          bookingID,
		ShowtimeID:  hold.ShowtimeID,
		SessionID:   sessionID,
		Seats:       hold.SeatIDs,
		Email:       req.Email,
		Phone:       req.Phone,
		TotalAmount: totalAmount,
		Status:      string(StatusPending),
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking record: %w", err)
	}

	// Payment runs without any seat locks. The hold's own timer is the
	// only thing protecting the seats while we wait.
	paymentStart := time.Now()
	payCtx, cancel := context.WithTimeout(ctx, s.cfg.PaymentTimeout)
	receipt, payErr := s.gateway.Submit(payCtx, totalAmount, payments.Contact{Email: req.Email, Phone: req.Phone})
	cancel()

	if payErr != nil {
		reason := "PAYMENT_FAILED"
		if errors.Is(payErr, payments.ErrPaymentTimeout) {
			reason = "PAYMENT_TIMEOUT"
		}
		s.log.LogPaymentResult(ctx, bookingID, totalAmount, reason, time.Since(paymentStart))
		if err := s.repo.MarkFailed(ctx, bookingID, reason); err != nil {
			s.log.ErrorWithContext(ctx, "failed to record payment failure", err, map[string]interface{}{"booking_id": bookingID})
		}
		// Seats remain held on the original expiry so the customer can retry
		return nil, payErr
	}
	s.log.LogPaymentResult(ctx, bookingID, totalAmount, "CAPTURED", time.Since(paymentStart))

	// Re-validate and convert atomically. The hold may have expired while
	// the gateway was processing.
	if err := s.holds.ConvertHold(ctx, req.HoldID, bookingID); err != nil {
		reason := "HOLD_NOT_ACTIVE"
		if errors.Is(err, holds.ErrHoldExpired) {
			reason = "HOLD_EXPIRED"
		} else if errors.Is(err, holds.ErrDuplicateBooking) {
			reason = "DUPLICATE_BOOKING"
		}
		s.log.LogBookingFailed(ctx, bookingID, hold.ShowtimeID, reason)
		// Payment was captured but the seats are gone. The refund is an
		// operational follow-up keyed off FAILED bookings with a payment id.
		booking.PaymentID = receipt.PaymentID
		if mfErr := s.repo.MarkFailed(ctx, bookingID, reason); mfErr != nil {
			s.log.ErrorWithContext(ctx, "failed to record booking failure", mfErr, map[string]interface{}{"booking_id": bookingID})
		}
		return nil, err
	}

	booking.PaymentID = receipt.PaymentID
	booking.OrderID = receipt.OrderID
	booking.TransactionID = generateTransactionID()
	booking.PaymentSignature = receipt.Signature
	booking.Status = string(StatusConfirmed)

	s.confirmWithRetry(ctx, booking)
	s.log.LogBookingConfirmed(ctx, bookingID, hold.ShowtimeID, totalAmount)

	ticket := s.issueTicket(booking, detail)
	s.notifyConfirmation(booking, detail)

	now := time.Now().UTC()
	return &BookingResponse{
		BookingID:   booking.ID,
		Status:      booking.Status,
		ShowtimeID:  booking.ShowtimeID,
		MovieTitle:  detail.Movie.Title,
		TheaterName: detail.Theater.Name,
		ShowDate:    detail.Showtime.ShowDate,
		ShowTime:    detail.Showtime.ShowTime,
		Seats:       booking.Seats,
		TotalAmount: booking.TotalAmount,
		Payment: &PaymentInfo{
			PaymentID:     receipt.PaymentID,
			OrderID:       receipt.OrderID,
			TransactionID: booking.TransactionID,
			Currency:      s.cfg.Currency,
		},
		Ticket:      ticket,
		CreatedAt:   booking.CreatedAt,
		ConfirmedAt: &now,
	}, nil
}

// confirmWithRetry persists the confirmation. Payment is already captured,
// so this write must eventually land: after the in-request attempts are
// exhausted a background goroutine keeps retrying until it succeeds.
func (s *service) confirmWithRetry(ctx context.Context, booking *Booking) {
	var lastErr error
	for attempt := 0; attempt < s.cfg.ConfirmRetries; attempt++ {
		if lastErr = s.repo.MarkConfirmed(ctx, booking); lastErr == nil {
			return
		}
		time.Sleep(s.cfg.ConfirmBackoff * time.Duration(1<<attempt))
	}

	s.log.ErrorWithContext(ctx, "confirmation persistence failed, continuing in background", lastErr,
		map[string]interface{}{"booking_id": booking.ID})

	go func() {
		backoff := s.cfg.ConfirmBackoff
		for {
			bgCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := s.repo.MarkConfirmed(bgCtx, booking)
			cancel()
			if err == nil {
				s.log.InfoWithContext(context.Background(), "confirmation persisted after retry",
					map[string]interface{}{"booking_id": booking.ID})
				return
			}
			time.Sleep(backoff)
			if backoff < time.Minute {
				backoff *= 2
			}
		}
	}()
}

func (s *service) issueTicket(booking *Booking, detail *catalog.ShowtimeDetail) *tickets.Ticket {
	ticket, err := s.issuer.Issue(tickets.IssueRequest{
		BookingID:     booking.ID,
		BookingStatus: booking.Status,
		MovieTitle:    detail.Movie.Title,
		TheaterName:   detail.Theater.Name,
		Seats:         booking.Seats,
		ShowDate:      detail.Showtime.ShowDate,
		ShowTime:      detail.Showtime.ShowTime,
	})
	if err != nil {
		s.log.ErrorWithContext(context.Background(), "ticket issuance failed", err,
			map[string]interface{}{"booking_id": booking.ID})
		return nil
	}
	return ticket
}

func (s *service) notifyConfirmation(booking *Booking, detail *catalog.ShowtimeDetail) {
	if s.notifier == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.notifier.SendBookingConfirmation(ctx, notifications.BookingDetails{
			BookingID:   booking.ID,
			ShowtimeID:  booking.ShowtimeID,
			Email:       booking.Email,
			Phone:       booking.Phone,
			MovieTitle:  detail.Movie.Title,
			TheaterName: detail.Theater.Name,
			ShowDate:    detail.Showtime.ShowDate,
			ShowTime:    detail.Showtime.ShowTime,
			Seats:       booking.Seats,
			TotalAmount: booking.TotalAmount,
		})
		if err != nil {
			s.log.ErrorWithContext(ctx, "failed to queue confirmation email", err,
				map[string]interface{}{"booking_id": booking.ID})
		}
	}()
}

func (s *service) GetBooking(ctx context.Context, bookingID string) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	resp := &BookingResponse{
		BookingID:   booking.ID,
		Status:      booking.Status,
		ShowtimeID:  booking.ShowtimeID,
		Seats:       booking.Seats,
		TotalAmount: booking.TotalAmount,
		CreatedAt:   booking.CreatedAt,
		ConfirmedAt: booking.ConfirmedAt,
	}

	if detail, err := s.catalog.GetShowtimeDetail(ctx, booking.ShowtimeID); err == nil {
		resp.MovieTitle = detail.Movie.Title
		resp.TheaterName = detail.Theater.Name
		resp.ShowDate = detail.Showtime.ShowDate
		resp.ShowTime = detail.Showtime.ShowTime
	}

	if booking.PaymentID != "" {
		resp.Payment = &PaymentInfo{
			PaymentID:     booking.PaymentID,
			OrderID:       booking.OrderID,
			TransactionID: booking.TransactionID,
			Currency:      s.cfg.Currency,
		}
	}

	if ticket, ok := s.issuer.Get(booking.ID); ok {
		resp.Ticket = ticket
	}
	return resp, nil
}

// GetTicket re-issues the ticket for a booking. Issuance is idempotent, so
// repeat calls return the identical ticket.
func (s *service) GetTicket(ctx context.Context, bookingID string) (*tickets.Ticket, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if ticket, ok := s.issuer.Get(booking.ID); ok {
		return ticket, nil
	}

	detail, err := s.catalog.GetShowtimeDetail(ctx, booking.ShowtimeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve showtime %s: %w", booking.ShowtimeID, err)
	}

	return s.issuer.Issue(tickets.IssueRequest{
		BookingID:     booking.ID,
		BookingStatus: booking.Status,
		MovieTitle:    detail.Movie.Title,
		TheaterName:   detail.Theater.Name,
		Seats:         booking.Seats,
		ShowDate:      detail.Showtime.ShowDate,
		ShowTime:      detail.Showtime.ShowTime,
	})
}

// generateBookingID builds ids like TH-20260830-QJXKPM.
func generateBookingID() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("TH-%s-%s", timestamp, string(randomPart)), nil
}

// generateTransactionID generates a mock transaction ID
func generateTransactionID() string {
	const hexDigits = "0123456789ABCDEF"
	randomPart := make([]byte, 8)
	for i := range randomPart {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(hexDigits))))
		randomPart[i] = hexDigits[num.Int64()]
	}
	return fmt.Sprintf("TXN_%d_%s", time.Now().Unix(), string(randomPart))
}
