package tickets

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"tickethub/pkg/logger"
)

var ErrBookingNotConfirmed = errors.New("ticket can only be issued for a confirmed booking")

// IssueRequest carries everything the ticket needs so the issuer does not
// have to look the booking up itself.
type IssueRequest struct {
	BookingID     string
	BookingStatus string
	MovieTitle    string
	TheaterName   string
	Seats         []string
	ShowDate      string
	ShowTime      string
}

// Ticket is the issued artifact. QRPayload is what gets rendered as a QR
// code at the venue gate; Signature lets the scanner verify it offline.
type Ticket struct {
	BookingID string    `json:"booking_id"`
	QRPayload string    `json:"qr_payload"`
	Signature string    `json:"signature"`
	IssuedAt  time.Time `json:"issued_at"`
}

// qrContents is the document encoded into QRPayload.
type qrContents struct {
	BookingID   string   `json:"booking_id"`
	MovieTitle  string   `json:"movie_title"`
	TheaterName string   `json:"theater_name"`
	Seats       []string `json:"seats"`
	ShowDate    string   `json:"show_date"`
	ShowTime    string   `json:"show_time"`
}

// Issuer mints tickets for confirmed bookings. Re-issuing for the same
// booking returns the original ticket unchanged, byte for byte.
type Issuer struct {
	secret []byte
	log    *logger.Logger

	mu     sync.Mutex
	issued map[string]*Ticket
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		log:    logger.GetDefault(),
		issued: make(map[string]*Ticket),
	}
}

const statusConfirmed = "CONFIRMED"

func (i *Issuer) Issue(req IssueRequest) (*Ticket, error) {
	if req.BookingStatus != statusConfirmed {
		return nil, fmt.Errorf("%w: booking %s is %s", ErrBookingNotConfirmed, req.BookingID, req.BookingStatus)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if existing, ok := i.issued[req.BookingID]; ok {
		return existing, nil
	}

	payload, err := json.Marshal(qrContents{
		BookingID:   req.BookingID,
		MovieTitle:  req.MovieTitle,
		TheaterName: req.TheaterName,
		Seats:       req.Seats,
		ShowDate:    req.ShowDate,
		ShowTime:    req.ShowTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode ticket payload: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(payload)
	ticket := &Ticket{
		BookingID: req.BookingID,
		QRPayload: encoded,
		Signature: i.sign(encoded),
		IssuedAt:  time.Now().UTC(),
	}
	i.issued[req.BookingID] = ticket

	i.log.LogTicketIssued(context.Background(), req.BookingID)
	return ticket, nil
}

// Get returns the ticket for a booking if one was issued.
func (i *Issuer) Get(bookingID string) (*Ticket, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	t, ok := i.issued[bookingID]
	return t, ok
}

// Verify checks that a payload and signature belong together.
func (i *Issuer) Verify(qrPayload, signature string) bool {
	return hmac.Equal([]byte(i.sign(qrPayload)), []byte(signature))
}

func (i *Issuer) sign(payload string) string {
	mac := hmac.New(sha256.New, i.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
