package domain

import (
	"time"

	"github.com/google/uuid"
)

type Airport struct {
	ID        uuid.UUID
	Name      string
	AbvName   string
	Latitude  string
	Longitude string
}

// FlightModel is reference data: the aircraft type a flight is operated with.
// SeatCapacity is the hard limit on simultaneous confirmed bookings.
type FlightModel struct {
	ID           int
	Name         string
	Code         string
	SeatCapacity int
	SeatsPerRow  int
}

type Flight struct {
	ID               uuid.UUID
	SourceAirportID  uuid.UUID
	DestAirportID    uuid.UUID
	FlightModelID    int
	DepartureTime    time.Time
	ArrivalTime      time.Time
	OccupiedSeats    int
	RewardPointsCost int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DepartureAt combines the flight's departure clock time with a concrete
// calendar date. Flights run daily, so only the clock part of DepartureTime
// is meaningful on its own.
func (f *Flight) DepartureAt(date time.Time) time.Time {
	h, m, s := f.DepartureTime.Clock()
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, s, 0, date.Location())
}
