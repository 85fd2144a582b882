package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"tickethub/internal/catalog"
	"tickethub/internal/holds"
	"tickethub/internal/payments"
	"tickethub/internal/tickets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu       sync.Mutex
	bookings map[string]*Booking

	confirmFailures int
	confirmCalls    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[string]*Booking)}
}

func (r *fakeRepo) CreateBooking(_ context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	booking.CreatedAt = time.Now()
	cp := *booking
	r.bookings[booking.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBookingByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) MarkConfirmed(_ context.Context, booking *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmCalls++
	if r.confirmCalls <= r.confirmFailures {
		return errors.New("connection refused")
	}
	stored, ok := r.bookings[booking.ID]
	if !ok {
		return ErrBookingNotFound
	}
	stored.Status = string(StatusConfirmed)
	stored.PaymentID = booking.PaymentID
	stored.OrderID = booking.OrderID
	stored.TransactionID = booking.TransactionID
	now := time.Now()
	stored.ConfirmedAt = &now
	return nil
}

func (r *fakeRepo) MarkFailed(_ context.Context, id, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	stored.Status = string(StatusFailed)
	stored.FailureReason = reason
	return nil
}

func (r *fakeRepo) BookedSeats(_ context.Context, showtimeID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var seats []string
	for _, b := range r.bookings {
		if b.ShowtimeID == showtimeID && b.Status == string(StatusConfirmed) {
			seats = append(seats, b.Seats...)
		}
	}
	return seats, nil
}

func (r *fakeRepo) get(id string) *Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id]
}

type fakeHoldSource struct {
	mu         sync.Mutex
	info       holds.Info
	convertErr error
	converted  bool
}

func (h *fakeHoldSource) Get(holdID string) (holds.Info, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if holdID != h.info.ID {
		return holds.Info{}, holds.ErrHoldNotFound
	}
	return h.info, nil
}

func (h *fakeHoldSource) ConvertHold(_ context.Context, holdID, _ string) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if holdID != h.info.ID {
		return holds.ErrHoldNotFound
	}
	if h.convertErr != nil {
		return h.convertErr
	}
	if h.converted {
		return holds.ErrDuplicateBooking
	}
	h.converted = true
	return nil
}

type fakeShowtimes struct {
	detail *catalog.ShowtimeDetail
}

func (f *fakeShowtimes) GetShowtimeDetail(_ context.Context, showtimeID string) (*catalog.ShowtimeDetail, error) {
	if f.detail == nil || f.detail.Showtime.ID != showtimeID {
		return nil, catalog.ErrNotFound
	}
	return f.detail, nil
}

type stubGateway struct {
	err      error
	receipts int
}

func (g *stubGateway) Submit(_ context.Context, amount float64, _ payments.Contact) (*payments.Receipt, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.receipts++
	return &payments.Receipt{
		PaymentID:  "pay_test123",
		OrderID:    "order_test123",
		Signature:  "sig",
		Amount:     amount,
		Currency:   "INR",
		CapturedAt: time.Now(),
	}, nil
}

func testDetail() *catalog.ShowtimeDetail {
	return &catalog.ShowtimeDetail{
		Showtime: catalog.Showtime{
			ID:       "show1",
			MovieID:  "1",
			ShowDate: "2026-08-30",
			ShowTime: "06:45 PM",
			Price:    450,
		},
		Movie:   catalog.Movie{ID: "1", Title: "Kalki 2898 AD"},
		Theater: catalog.Theater{ID: "theater1", Name: "PVR: Phoenix MarketCity"},
	}
}

func activeHold(seats ...string) holds.Info {
	now := time.Now()
	return holds.Info{
		ID:         "hold1",
		ShowtimeID: "show1",
		SessionID:  "session1",
		SeatIDs:    seats,
		Status:     holds.StatusActive,
		CreatedAt:  now,
		ExpiresAt:  now.Add(5 * time.Minute),
	}
}

func newTestService(repo Repository, hs HoldSource, gw payments.Gateway) Service {
	return NewService(repo, hs, &fakeShowtimes{detail: testDetail()}, gw,
		tickets.NewIssuer("test-secret"), nil, ServiceConfig{
			ConvenienceFeePerSeat: 20,
			Currency:              "INR",
			PaymentTimeout:        time.Second,
			ConfirmRetries:        2,
			ConfirmBackoff:        time.Millisecond,
		})
}

func TestCreateBooking_Success(t *testing.T) {
	repo := newFakeRepo()
	hs := &fakeHoldSource{info: activeHold("A1", "A2", "A3")}
	svc := newTestService(repo, hs, &stubGateway{})

	resp, err := svc.CreateBooking(context.Background(), "session1", CreateBookingRequest{
		HoldID: "hold1", Email: "guest@example.com", Phone: "9876543210",
	})
	require.NoError(t, err)

	assert.Equal(t, string(StatusConfirmed), resp.Status)
	assert.True(t, strings.HasPrefix(resp.BookingID, "TH-"))
	// 3 seats at 450 plus 20 convenience fee per seat.
	assert.Equal(t, 3*450.0+3*20.0, resp.TotalAmount)
	assert.Equal(t, "Kalki 2898 AD", resp.MovieTitle)
	assert.Equal(t, []string{"A1", "A2", "A3"}, resp.Seats)
	require.NotNil(t, resp.Payment)
	assert.Equal(t, "pay_test123", resp.Payment.PaymentID)
	require.NotNil(t, resp.Ticket)
	assert.Equal(t, resp.BookingID, resp.Ticket.BookingID)

	assert.True(t, hs.converted)

	stored := repo.get(resp.BookingID)
	require.NotNil(t, stored)
	assert.Equal(t, string(StatusConfirmed), stored.Status)
	assert.NotNil(t, stored.ConfirmedAt)
}

func TestCreateBooking_TotalAmountPerSeatCount(t *testing.T) {
	// price*n seats plus the per-seat convenience fee, across every seat
	// count a single hold allows.
	for n := 1; n <= 10; n++ {
		seats := make([]string, n)
		for i := range seats {
			seats[i] = fmt.Sprintf("A%d", i+1)
		}
		svc := newTestService(newFakeRepo(), &fakeHoldSource{info: activeHold(seats...)}, &stubGateway{})

		resp, err := svc.CreateBooking(context.Background(), "session1", CreateBookingRequest{
			HoldID: "hold1", Email: "guest@example.com", Phone: "9876543210",
		})
		require.NoError(t, err, "seat count %d", n)
		assert.Equal(t, float64(n)*450.0+float64(n)*20.0, resp.TotalAmount, "seat count %d", n)
	}
}

func TestCreateBooking_UnknownHold(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeHoldSource{info: activeHold("A1")}, &stubGateway{})

	_, err := svc.CreateBooking(context.Background(), "session1", CreateBookingRequest{
		HoldID: "missing", Email: "guest@example.com",
	})
	assert.ErrorIs(t, err, holds.ErrHoldNotFound)
}

func TestCreateBooking_OtherSessionsHoldIsHidden(t *testing.T) {
	hs := &fakeHoldSource{info: activeHold("A1")}
	svc := newTestService(newFakeRepo(), hs, &stubGateway{})

	_, err := svc.CreateBooking(context.Background(), "other-session", CreateBookingRequest{
		HoldID: "hold1", Email: "guest@example.com",
	})
	assert.ErrorIs(t, err, holds.ErrHoldNotFound)
	assert.False(t, hs.converted)
}

func TestCreateBooking_ExpiredHold(t *testing.T) {
	info := activeHold("A1")
	info.Status = holds.StatusExpired
	svc := newTestService(newFakeRepo(), &fakeHoldSource{info: info}, &stubGateway{})

	_, err := svc.CreateBooking(context.Background(), "session1", CreateBookingRequest{
		HoldID: "hold1", Email: "guest@example.com",
	})
	assert.ErrorIs(t, err, holds.ErrHoldExpired)
}

func TestCreateBooking_ConvertedHoldIsDuplicate(t *testing.T) {
	info := activeHold("A1")
	info.Status = holds.StatusConverted
	svc := newTestService(newFakeRepo(), &fakeHoldSource{info: info}, &stubGateway{})

	_, err := svc.CreateBooking(context.Background(), "session1", CreateBookingRequest{
		HoldID: "hold1", Email: "guest@example.com",
	})
	assert.ErrorIs(t, err, holds.ErrDuplicateBooking)
}

func TestCreateBooking_PaymentFailureKeepsHold(t *testing.T) {
	repo := newFakeRepo()
	hs := &fakeHoldSource{info: activeHold("A1", "A2")}
	svc := newTestService(repo, hs, &stubGateway{err: payments.ErrPaymentFailed})

	_, err := svc.CreateBooking(context.Background(), "session1", CreateBookingRequest{
		HoldID: "hold1", Email: "guest@example.com",
	})
	assert.ErrorIs(t, err, payments.ErrPaymentFailed)

	// The hold must not be converted; the customer retries on the same hold.
	assert.False(t, hs.converted)

	var failed *Booking
	for _, b := range repo.bookings {
		failed = b
	}
	require.NotNil(t, failed)
	assert.Equal(t, string(StatusFailed), failed.Status)
	assert.Equal(t, "PAYMENT_FAILED", failed.FailureReason)
}

func TestCreateBooking_HoldExpiresDuringPayment(t *testing.T) {
	repo := newFakeRepo()
	hs := &fakeHoldSource{info: activeHold("A1"), convertErr: holds.ErrHoldExpired}
	svc := newTestService(repo, hs, &stubGateway{})

	_, err := svc.CreateBooking(context.Background(), "session1", CreateBookingRequest{
		HoldID: "hold1", Email: "guest@example.com",
	})
	assert.ErrorIs(t, err, holds.ErrHoldExpired)

	var failed *Booking
	for _, b := range repo.bookings {
		failed = b
	}
	require.NotNil(t, failed)
	assert.Equal(t, string(StatusFailed), failed.Status)
	assert.Equal(t, "HOLD_EXPIRED", failed.FailureReason)
}

func TestCreateBooking_ConfirmationRetriesOnTransientFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.confirmFailures = 1
	hs := &fakeHoldSource{info: activeHold("A1")}
	svc := newTestService(repo, hs, &stubGateway{})

	resp, err := svc.CreateBooking(context.Background(), "session1", CreateBookingRequest{
		HoldID: "hold1", Email: "guest@example.com",
	})
	require.NoError(t, err)

	stored := repo.get(resp.BookingID)
	require.NotNil(t, stored)
	assert.Equal(t, string(StatusConfirmed), stored.Status)
	assert.GreaterOrEqual(t, repo.confirmCalls, 2)
}

func TestGetTicket_IdempotentReissue(t *testing.T) {
	repo := newFakeRepo()
	hs := &fakeHoldSource{info: activeHold("A1")}
	svc := newTestService(repo, hs, &stubGateway{})

	resp, err := svc.CreateBooking(context.Background(), "session1", CreateBookingRequest{
		HoldID: "hold1", Email: "guest@example.com",
	})
	require.NoError(t, err)

	t1, err := svc.GetTicket(context.Background(), resp.BookingID)
	require.NoError(t, err)
	t2, err := svc.GetTicket(context.Background(), resp.BookingID)
	require.NoError(t, err)

	assert.Equal(t, t1, t2)
	assert.Equal(t, t1.QRPayload, t2.QRPayload)
	assert.Equal(t, t1.Signature, t2.Signature)
}

func TestGetBooking_NotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeHoldSource{info: activeHold("A1")}, &stubGateway{})

	_, err := svc.GetBooking(context.Background(), "TH-20260830-ZZZZZZ")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGenerateBookingID_Format(t *testing.T) {
	id, err := generateBookingID()
	require.NoError(t, err)

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "TH", parts[0])
	assert.Len(t, parts[1], 8)
	assert.Len(t, parts[2], 6)
	for _, r := range parts[2] {
		assert.True(t, r >= 'A' && r <= 'Z')
	}
}
