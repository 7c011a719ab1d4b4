package rewards

import (
	"testing"
	"time"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCost(t *testing.T) {
	assert.Equal(t, 100, Cost(&domain.Flight{RewardPointsCost: 100}))
	assert.Equal(t, 0, Cost(&domain.Flight{RewardPointsCost: -5}))
	assert.Equal(t, 0, Cost(nil))
}

func TestDebitForBooking(t *testing.T) {
	testCases := []struct {
		name        string
		balance     int
		cost        int
		wantBalance int
		wantOK      bool
	}{
		{name: "exact balance", balance: 100, cost: 100, wantBalance: 0, wantOK: true},
		{name: "more than enough", balance: 150, cost: 100, wantBalance: 50, wantOK: true},
		{name: "insufficient leaves balance unchanged", balance: 50, cost: 100, wantBalance: 50, wantOK: false},
		{name: "zero cost", balance: 50, cost: 0, wantBalance: 50, wantOK: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DebitForBooking(tc.balance, tc.cost)
			assert.Equal(t, tc.wantBalance, got)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}

func TestCreditForPayment(t *testing.T) {
	flight := &domain.Flight{RewardPointsCost: 100}
	assert.Equal(t, 110, CreditForPayment(100, flight))

	// even a free flight accrues a single point
	assert.Equal(t, 101, CreditForPayment(100, &domain.Flight{RewardPointsCost: 0}))
}

func TestRefundOnCancellation(t *testing.T) {
	now := time.Now()

	t.Run("departure far in the future refunds in full", func(t *testing.T) {
		departure := now.AddDate(10, 0, 0)
		assert.Equal(t, 100, RefundOnCancellation(0, 100, departure, now))
	})

	t.Run("departure in the past refunds nothing", func(t *testing.T) {
		departure := now.AddDate(-10, 0, 0)
		assert.Equal(t, 0, RefundOnCancellation(0, 100, departure, now))
	})

	t.Run("departure exactly now refunds nothing", func(t *testing.T) {
		assert.Equal(t, 0, RefundOnCancellation(0, 100, now, now))
	})

	t.Run("zero original cost", func(t *testing.T) {
		departure := now.Add(time.Hour)
		assert.Equal(t, 42, RefundOnCancellation(42, 0, departure, now))
	})
}
