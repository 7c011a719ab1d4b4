package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// FlightDateLayout is the calendar-date format bookings cross the API with.
const FlightDateLayout = "01-02-2006"

type Booking struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	FlightID   uuid.UUID
	SeatNumber string
	FlightDate time.Time
	Status     BookingStatus
	// PaymentStatus is true when the booking was paid in full with currency,
	// false when it was settled with reward points.
	PaymentStatus bool
	// PointsPaid captures the point cost at booking time. Refunds use this
	// value, not the flight's current cost.
	PointsPaid         int
	PassengerCheckedIn bool
	LuggageCheckedIn   bool
	LuggageCount       int
	LuggageWeightKg    float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
