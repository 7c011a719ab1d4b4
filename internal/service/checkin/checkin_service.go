package checkin

import (
	"context"
	"errors"
	"time"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/flightman/flightman-api/internal/kafka"
	"github.com/flightman/flightman-api/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	maxLuggageCount    = 2
	maxLuggageWeightKg = 46.0
)

type CheckInUseCase interface {
	ValidateCheckInTime(ctx context.Context, bookingID string) bool
	CheckInPassenger(ctx context.Context, bookingID string) (string, error)
	CheckInLuggage(ctx context.Context, bookingID string, count int, weightKg float64) (bool, error)
	LuggageCheckedIn(ctx context.Context, bookingID string) bool
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CheckInService struct {
	bookings    repository.BookingRepository
	flights     repository.FlightRepository
	producer    Producer
	eventsTopic string
	window      time.Duration
}

func NewCheckInService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	producer Producer,
	eventsTopic string,
	window time.Duration,
) *CheckInService {
	if window <= 0 {
		window = 2 * time.Hour
	}
	return &CheckInService{
		bookings:    bookings,
		flights:     flights,
		producer:    producer,
		eventsTopic: eventsTopic,
		window:      window,
	}
}

// ValidateCheckInTime reports whether the booking's departure is close enough
// to check in: inside [departure-window, departure).
func (s *CheckInService) ValidateCheckInTime(ctx context.Context, bookingID string) bool {
	booking, flight, err := s.resolve(ctx, bookingID)
	if err != nil {
		return false
	}
	return s.inWindow(booking, flight, time.Now())
}

func (s *CheckInService) inWindow(booking *domain.Booking, flight *domain.Flight, now time.Time) bool {
	departure := flight.DepartureAt(booking.FlightDate)
	return !now.Before(departure.Add(-s.window)) && now.Before(departure)
}

func (s *CheckInService) CheckInPassenger(ctx context.Context, bookingID string) (string, error) {
	booking, flight, err := s.resolve(ctx, bookingID)
	if err != nil {
		return "", err
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return "", domain.Reject(domain.ReasonBookingNotConfirmed, "booking %s is not confirmed", bookingID)
	}
	if booking.PassengerCheckedIn {
		return "", domain.Reject(domain.ReasonAlreadyCheckedIn, "passenger already checked in for booking %s", bookingID)
	}
	if !s.inWindow(booking, flight, time.Now()) {
		return "", domain.Reject(domain.ReasonNotCheckInTime, "check in is only allowed two hours before flight departure")
	}

	if err := s.bookings.SetPassengerCheckedIn(ctx, booking.ID); err != nil {
		return "", err
	}

	s.publish(ctx, kafka.EventPassengerCheckedIn, booking)
	logrus.WithFields(logrus.Fields{"booking_id": booking.ID}).Info("passenger checked in")
	return "Checked in successfully", nil
}

func (s *CheckInService) CheckInLuggage(ctx context.Context, bookingID string, count int, weightKg float64) (bool, error) {
	booking, flight, err := s.resolve(ctx, bookingID)
	if err != nil {
		return false, err
	}
	if !s.inWindow(booking, flight, time.Now()) {
		return false, domain.Reject(domain.ReasonNotCheckInTime, "check in is only allowed two hours before flight departure")
	}
	if booking.LuggageCheckedIn {
		return false, domain.Reject(domain.ReasonAlreadyCheckedIn, "luggage has been already checked in")
	}
	if count <= 0 || count > maxLuggageCount {
		return false, domain.Reject(domain.ReasonLuggageCountExceeded, "only 1 to %d luggages are allowed", maxLuggageCount)
	}
	if weightKg <= 0 || weightKg > maxLuggageWeightKg {
		return false, domain.Reject(domain.ReasonLuggageWeightExceeded, "luggage can weigh only up to %.0f kgs in total", maxLuggageWeightKg)
	}

	if err := s.bookings.SetLuggage(ctx, booking.ID, count, weightKg); err != nil {
		return false, err
	}

	s.publish(ctx, kafka.EventLuggageCheckedIn, booking)
	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"count":      count,
		"weight_kg":  weightKg,
	}).Info("luggage checked in")
	return true, nil
}

func (s *CheckInService) LuggageCheckedIn(ctx context.Context, bookingID string) bool {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return false
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return false
	}
	return booking.LuggageCheckedIn
}

func (s *CheckInService) resolve(ctx context.Context, bookingID string) (*domain.Booking, *domain.Flight, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, nil, domain.ErrMalformedID
	}
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, err
	}
	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return nil, nil, err
	}
	return booking, flight, nil
}

func (s *CheckInService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID.String(),
		UserID:     booking.UserID.String(),
		FlightID:   booking.FlightID.String(),
		SeatNumber: booking.SeatNumber,
		FlightDate: booking.FlightDate.Format(domain.FlightDateLayout),
		Status:     string(booking.Status),
		OccurredAt: time.Now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, event.BookingID, event); err != nil {
		logrus.WithError(err).WithField("booking_id", event.BookingID).Warnf("failed to publish %s event", eventType)
	}
}

var _ CheckInUseCase = (*CheckInService)(nil)
