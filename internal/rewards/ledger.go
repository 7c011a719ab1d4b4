// Package rewards holds the point arithmetic for bookings. Everything here is
// pure: functions take balances in and return new balances out, and the
// booking service commits the result together with the rest of the write set.
package rewards

import (
	"time"

	"github.com/flightman/flightman-api/internal/domain"
)

// accrualDivisor controls how many points a cash payment earns relative to
// the flight's point cost.
const accrualDivisor = 10

// Cost returns the point price of a flight. Never negative.
func Cost(flight *domain.Flight) int {
	if flight == nil || flight.RewardPointsCost < 0 {
		return 0
	}
	return flight.RewardPointsCost
}

// DebitForBooking charges cost against balance. Insufficient balance is a
// hard rejection: ok is false and the balance comes back unchanged.
func DebitForBooking(balance, cost int) (int, bool) {
	if balance < cost {
		return balance, false
	}
	return balance - cost, true
}

// CreditForPayment accrues points for a booking paid with currency. Every
// paid booking earns at least one point.
func CreditForPayment(balance int, flight *domain.Flight) int {
	accrual := Cost(flight) / accrualDivisor
	if accrual < 1 {
		accrual = 1
	}
	return balance + accrual
}

// RefundOnCancellation returns the balance after cancelling a booking that
// originally cost originalCost points. The refund is all-or-nothing: full
// refund while the departure is still in the future, nothing once it has
// passed.
func RefundOnCancellation(balance, originalCost int, departure, now time.Time) int {
	if originalCost <= 0 {
		return balance
	}
	if departure.After(now) {
		return balance + originalCost
	}
	return balance
}
