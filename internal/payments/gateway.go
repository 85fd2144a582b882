package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"tickethub/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrPaymentFailed  = errors.New("payment was declined")
	ErrPaymentTimeout = errors.New("payment processing timed out")
)

// Contact is the payer's contact info passed through to the gateway.
type Contact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Receipt is the gateway's proof of a captured payment.
type Receipt struct {
	PaymentID  string    `json:"payment_id"`
	OrderID    string    `json:"order_id"`
	Signature  string    `json:"signature"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
	CapturedAt time.Time `json:"captured_at"`
}

// Gateway captures a payment for the given amount. Implementations must
// respect ctx cancellation and return ErrPaymentTimeout when the deadline
// passes before the gateway answers.
type Gateway interface {
	Submit(ctx context.Context, amount float64, contact Contact) (*Receipt, error)
}

// Config for the mock gateway.
type Config struct {
	KeyID     string
	KeySecret string
	Currency  string
	// Latency simulates gateway round-trip time. Zero means no delay.
	Latency time.Duration
	// FailureRate in [0,1) makes a fraction of payments decline. Zero in
	// production config; tests raise it.
	FailureRate float64
}

// mockGateway emulates a Razorpay-style checkout: it creates an order id,
// captures a payment id and signs "order_id|payment_id" with the key secret.
// Submit runs on gin's request goroutines, so randomness goes through the
// locked top-level math/rand source.
type mockGateway struct {
	cfg Config
	log *logger.Logger
}

func NewMockGateway(cfg Config) Gateway {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	return &mockGateway{
		cfg: cfg,
		log: logger.GetDefault(),
	}
}

func (g *mockGateway) Submit(ctx context.Context, amount float64, contact Contact) (*Receipt, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrPaymentFailed)
	}

	if g.cfg.Latency > 0 {
		timer := time.NewTimer(g.cfg.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ErrPaymentTimeout
		}
	} else if err := ctx.Err(); err != nil {
		return nil, ErrPaymentTimeout
	}

	if g.cfg.FailureRate > 0 && rand.Float64() < g.cfg.FailureRate {
		return nil, ErrPaymentFailed
	}

	orderID := "order_" + uuid.New().String()[:12]
	paymentID := "pay_" + uuid.New().String()[:12]

	receipt := &Receipt{
		PaymentID:  paymentID,
		OrderID:    orderID,
		Signature:  Sign(g.cfg.KeySecret, orderID, paymentID),
		Amount:     amount,
		Currency:   g.cfg.Currency,
		CapturedAt: time.Now().UTC(),
	}

	g.log.InfoWithContext(ctx, "payment captured", map[string]interface{}{
		"order_id":   receipt.OrderID,
		"payment_id": receipt.PaymentID,
		"amount":     receipt.Amount,
		"currency":   receipt.Currency,
		"email":      contact.Email,
	})
	return receipt, nil
}

// Sign computes the checkout signature over "order_id|payment_id".
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", orderID, paymentID)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a receipt signature against the key secret.
func VerifySignature(secret string, receipt *Receipt) bool {
	expected := Sign(secret, receipt.OrderID, receipt.PaymentID)
	return hmac.Equal([]byte(expected), []byte(receipt.Signature))
}
