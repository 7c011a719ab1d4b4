package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrMalformedID = errors.New("malformed identifier")
	ErrUnavailable = errors.New("storage unavailable")
)

// RejectionReason distinguishes every business-rule rejection path. These are
// expected outcomes, not faults, and each one maps to its own client message.
type RejectionReason string

const (
	ReasonInvalidUser           RejectionReason = "INVALID_USER"
	ReasonInvalidFlight         RejectionReason = "INVALID_FLIGHT"
	ReasonInvalidDate           RejectionReason = "INVALID_DATE"
	ReasonFlightFull            RejectionReason = "FLIGHT_FULL"
	ReasonInsufficientPoints    RejectionReason = "INSUFFICIENT_POINTS"
	ReasonSeatTaken             RejectionReason = "SEAT_TAKEN"
	ReasonNotCheckInTime        RejectionReason = "NOT_CHECK_IN_TIME"
	ReasonBookingNotConfirmed   RejectionReason = "BOOKING_NOT_CONFIRMED"
	ReasonAlreadyCheckedIn      RejectionReason = "ALREADY_CHECKED_IN"
	ReasonLuggageCountExceeded  RejectionReason = "LUGGAGE_COUNT_EXCEEDED"
	ReasonLuggageWeightExceeded RejectionReason = "LUGGAGE_WEIGHT_EXCEEDED"
)

type RejectionError struct {
	Reason  RejectionReason
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Reason)
}

func Reject(reason RejectionReason, format string, args ...interface{}) error {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// RejectedWith reports whether err is a rejection with the given reason.
func RejectedWith(err error, reason RejectionReason) bool {
	var rej *RejectionError
	return errors.As(err, &rej) && rej.Reason == reason
}
