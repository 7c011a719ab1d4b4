package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/flightman/flightman-api/internal/kafka"
	"github.com/flightman/flightman-api/internal/repository"
	"github.com/flightman/flightman-api/internal/rewards"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type BookingUseCase interface {
	Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	Cancel(ctx context.Context, bookingID, userID string) (bool, error)
	List(ctx context.Context, userID string) ([]domain.Booking, error)
	ValidateUser(ctx context.Context, id string) bool
	ValidateFlight(ctx context.Context, id string) bool
	ValidateBooking(ctx context.Context, id string) bool
}

type Cache interface {
	AcquireFlightLock(ctx context.Context, flightID uuid.UUID, ttl time.Duration) (bool, error)
	ReleaseFlightLock(ctx context.Context, flightID uuid.UUID) error
	AcquireUserLock(ctx context.Context, userID uuid.UUID, ttl time.Duration) (bool, error)
	ReleaseUserLock(ctx context.Context, userID uuid.UUID) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	users              repository.UserRepository
	reference          repository.ReferenceRepository
	cache              Cache
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	lockTTL            time.Duration
}

// CreateBookingInput carries the primitive request values; identifiers are
// UUID-shaped strings and Date uses the MM-DD-YYYY calendar form.
type CreateBookingInput struct {
	UserID          string `json:"user_id"`
	FlightID        string `json:"flight_id"`
	SeatNumber      string `json:"seat_number"`
	Date            string `json:"date"`
	UseRewardPoints bool   `json:"use_reward_points"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	users repository.UserRepository,
	reference repository.ReferenceRepository,
	cache Cache,
	producer Producer,
	eventsTopic string,
	lockTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		flights:     flights,
		users:       users,
		reference:   reference,
		cache:       cache,
		producer:    producer,
		eventsTopic: eventsTopic,
		lockTTL:     lockTTL,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) Create(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	userID, err := uuid.Parse(input.UserID)
	if err != nil {
		return nil, domain.Reject(domain.ReasonInvalidUser, "invalid user id %q", input.UserID)
	}
	flightID, err := uuid.Parse(input.FlightID)
	if err != nil {
		return nil, domain.Reject(domain.ReasonInvalidFlight, "invalid flight id %q", input.FlightID)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Reject(domain.ReasonInvalidUser, "unknown user %s", userID)
		}
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Reject(domain.ReasonInvalidFlight, "unknown flight %s", flightID)
		}
		return nil, err
	}
	model, err := s.reference.GetModelByID(ctx, flight.FlightModelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Reject(domain.ReasonInvalidFlight, "flight %s has no model", flightID)
		}
		return nil, err
	}

	flightDate, err := time.Parse(domain.FlightDateLayout, input.Date)
	if err != nil {
		return nil, domain.Reject(domain.ReasonInvalidDate, "invalid date %q, expected MM-DD-YYYY", input.Date)
	}
	// one-day grace window: booking "today" is still valid after midnight
	if flightDate.Before(time.Now().Add(-24 * time.Hour)) {
		return nil, domain.Reject(domain.ReasonInvalidDate, "flight date %s is in the past", input.Date)
	}

	if s.cache != nil {
		if err := s.lock(ctx, flightID, userID); err != nil {
			return nil, err
		}
		defer s.unlock(ctx, flightID, userID)

		// the balance may have moved while we waited for the lease; the
		// debit below must work from the value it now protects
		user, err = s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	booked, err := s.bookings.CountForFlightDate(ctx, flightID, flightDate)
	if err != nil {
		return nil, err
	}
	if booked >= model.SeatCapacity {
		return nil, domain.Reject(domain.ReasonFlightFull, "flight %s is full on %s", flightID, input.Date)
	}

	seat := input.SeatNumber
	if seat != "" {
		taken, err := s.bookings.SeatTaken(ctx, flightID, flightDate, seat)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Reject(domain.ReasonSeatTaken, "seat %s is already taken", seat)
		}
	} else {
		seat, err = s.assignSeat(ctx, flightID, flightDate, model)
		if err != nil {
			return nil, err
		}
	}

	newBalance := user.RewardPoints
	pointsPaid := 0
	if input.UseRewardPoints {
		cost := rewards.Cost(flight)
		balance, ok := rewards.DebitForBooking(user.RewardPoints, cost)
		if !ok {
			return nil, domain.Reject(domain.ReasonInsufficientPoints, "user %s has %d points, flight costs %d", userID, user.RewardPoints, cost)
		}
		newBalance = balance
		pointsPaid = cost
	} else {
		newBalance = rewards.CreditForPayment(user.RewardPoints, flight)
	}

	booking := &domain.Booking{
		UserID:        userID,
		FlightID:      flightID,
		SeatNumber:    seat,
		FlightDate:    flightDate,
		PaymentStatus: !input.UseRewardPoints,
		PointsPaid:    pointsPaid,
	}
	if err := s.bookings.Create(ctx, booking, newBalance); err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	s.publish(ctx, kafka.EventBookingCreated, booking, newBalance-user.RewardPoints)

	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"flight_id":  flightID,
		"user_id":    userID,
		"seat":       seat,
	}).Info("booking created")
	return booking, nil
}

func (s *BookingService) Cancel(ctx context.Context, bookingID, userID string) (bool, error) {
	bID, err := uuid.Parse(bookingID)
	if err != nil {
		return false, nil
	}
	uID, err := uuid.Parse(userID)
	if err != nil {
		return false, nil
	}

	booking, err := s.bookings.GetByID(ctx, bID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if booking.UserID != uID || booking.Status != domain.BookingStatusConfirmed {
		return false, nil
	}

	if s.cache != nil {
		if err := s.lock(ctx, booking.FlightID, uID); err != nil {
			return false, err
		}
		defer s.unlock(ctx, booking.FlightID, uID)
	}

	user, err := s.users.GetByID(ctx, uID)
	if err != nil {
		return false, err
	}
	flight, err := s.flights.GetByID(ctx, booking.FlightID)
	if err != nil {
		return false, err
	}

	// refund uses the cost paid at booking time, gated by the departure
	// instant of the booked date
	departure := flight.DepartureAt(booking.FlightDate)
	newBalance := rewards.RefundOnCancellation(user.RewardPoints, booking.PointsPaid, departure, time.Now())

	if err := s.bookings.Cancel(ctx, bID, newBalance); err != nil {
		return false, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	booking.Status = domain.BookingStatusCancelled
	s.publish(ctx, kafka.EventBookingCancelled, booking, newBalance-user.RewardPoints)

	logrus.WithFields(logrus.Fields{
		"booking_id": bID,
		"user_id":    uID,
		"refunded":   newBalance - user.RewardPoints,
	}).Info("booking cancelled")
	return true, nil
}

func (s *BookingService) List(ctx context.Context, userID string) ([]domain.Booking, error) {
	if userID == "" {
		return s.bookings.List(ctx, nil)
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrMalformedID
	}
	return s.bookings.List(ctx, &id)
}

func (s *BookingService) ValidateUser(ctx context.Context, id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	_, err = s.users.GetByID(ctx, parsed)
	return err == nil
}

func (s *BookingService) ValidateFlight(ctx context.Context, id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	_, err = s.flights.GetByID(ctx, parsed)
	return err == nil
}

func (s *BookingService) ValidateBooking(ctx context.Context, id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	_, err = s.bookings.GetByID(ctx, parsed)
	return err == nil
}

// assignSeat picks the first free seat label for the date, walking the cabin
// row by row.
func (s *BookingService) assignSeat(ctx context.Context, flightID uuid.UUID, date time.Time, model *domain.FlightModel) (string, error) {
	for i := 0; i < model.SeatCapacity; i++ {
		seat := seatLabel(i, model.SeatsPerRow)
		taken, err := s.bookings.SeatTaken(ctx, flightID, date, seat)
		if err != nil {
			return "", err
		}
		if !taken {
			return seat, nil
		}
	}
	return "", domain.Reject(domain.ReasonFlightFull, "no free seats on flight %s", flightID)
}

func seatLabel(ordinal, seatsPerRow int) string {
	if seatsPerRow <= 0 {
		seatsPerRow = 6
	}
	row := ordinal/seatsPerRow + 1
	letter := rune('A' + ordinal%seatsPerRow)
	return fmt.Sprintf("%d%c", row, letter)
}

func (s *BookingService) lock(ctx context.Context, flightID, userID uuid.UUID) error {
	ok, err := s.cache.AcquireFlightLock(ctx, flightID, s.lockTTL)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: flight %s is being booked, try again", domain.ErrUnavailable, flightID)
	}
	ok, err = s.cache.AcquireUserLock(ctx, userID, s.lockTTL)
	if err != nil {
		_ = s.cache.ReleaseFlightLock(ctx, flightID)
		return err
	}
	if !ok {
		_ = s.cache.ReleaseFlightLock(ctx, flightID)
		return fmt.Errorf("%w: user %s has a booking in progress, try again", domain.ErrUnavailable, userID)
	}
	return nil
}

func (s *BookingService) unlock(ctx context.Context, flightID, userID uuid.UUID) {
	_ = s.cache.ReleaseUserLock(ctx, userID)
	_ = s.cache.ReleaseFlightLock(ctx, flightID)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, pointsDelta int) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID.String(),
		UserID:      booking.UserID.String(),
		FlightID:    booking.FlightID.String(),
		SeatNumber:  booking.SeatNumber,
		FlightDate:  booking.FlightDate.Format(domain.FlightDateLayout),
		Status:      string(booking.Status),
		PointsDelta: pointsDelta,
		OccurredAt:  time.Now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, event.BookingID, event); err != nil {
		logrus.WithError(err).WithField("booking_id", event.BookingID).Warnf("failed to publish %s event", eventType)
		return
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, event.BookingID, event); err != nil {
			logrus.WithError(err).WithField("booking_id", event.BookingID).Warnf("failed to publish %s notification", eventType)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
