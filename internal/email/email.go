package email

import (
	"context"

	"github.com/flightman/flightman-api/internal/kafka"
	"github.com/sirupsen/logrus"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	logrus.WithFields(logrus.Fields{
		"booking_id": event.BookingID,
		"user_id":    event.UserID,
		"flight_id":  event.FlightID,
		"type":       event.Type,
	}).Info("sending booking notification email")
	return nil
}
