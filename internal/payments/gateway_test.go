package payments

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmit_CapturesPayment(t *testing.T) {
	gw := NewMockGateway(Config{KeySecret: "test-secret"})

	receipt, err := gw.Submit(context.Background(), 940, Contact{Email: "guest@example.com"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(receipt.OrderID, "order_"))
	assert.True(t, strings.HasPrefix(receipt.PaymentID, "pay_"))
	assert.Equal(t, 940.0, receipt.Amount)
	assert.Equal(t, "INR", receipt.Currency)
	assert.True(t, VerifySignature("test-secret", receipt))
	assert.False(t, VerifySignature("wrong-secret", receipt))
}

func TestSubmit_RejectsNonPositiveAmount(t *testing.T) {
	gw := NewMockGateway(Config{KeySecret: "test-secret"})

	_, err := gw.Submit(context.Background(), 0, Contact{})
	assert.ErrorIs(t, err, ErrPaymentFailed)

	_, err = gw.Submit(context.Background(), -100, Contact{})
	assert.ErrorIs(t, err, ErrPaymentFailed)
}

func TestSubmit_TimesOutAgainstLatency(t *testing.T) {
	gw := NewMockGateway(Config{KeySecret: "test-secret", Latency: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := gw.Submit(ctx, 500, Contact{})
	assert.ErrorIs(t, err, ErrPaymentTimeout)
}

func TestSubmit_FullFailureRateDeclines(t *testing.T) {
	gw := NewMockGateway(Config{KeySecret: "test-secret", FailureRate: 0.9999999})

	declined := 0
	for i := 0; i < 20; i++ {
		if _, err := gw.Submit(context.Background(), 500, Contact{}); err != nil {
			assert.ErrorIs(t, err, ErrPaymentFailed)
			declined++
		}
	}
	assert.Greater(t, declined, 0)
}

func TestSubmit_ConcurrentWithFailureRate(t *testing.T) {
	gw := NewMockGateway(Config{KeySecret: "test-secret", FailureRate: 0.5})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				receipt, err := gw.Submit(context.Background(), 500, Contact{})
				if err != nil {
					assert.ErrorIs(t, err, ErrPaymentFailed)
					continue
				}
				assert.True(t, VerifySignature("test-secret", receipt))
			}
		}()
	}
	wg.Wait()
}

func TestSign_IsDeterministic(t *testing.T) {
	s1 := Sign("secret", "order_abc", "pay_def")
	s2 := Sign("secret", "order_abc", "pay_def")
	assert.Equal(t, s1, s2)
	assert.NotEqual(t, s1, Sign("secret", "order_abc", "pay_xyz"))
	assert.NotEqual(t, s1, Sign("other", "order_abc", "pay_def"))
}
