package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flightman/flightman-api/config"
	"github.com/flightman/flightman-api/internal/bootstrap"
	"github.com/flightman/flightman-api/internal/cache"
	"github.com/flightman/flightman-api/internal/kafka"
	"github.com/flightman/flightman-api/internal/repository"
	"github.com/flightman/flightman-api/internal/service/booking"
	"github.com/flightman/flightman-api/internal/service/checkin"
	"github.com/flightman/flightman-api/internal/service/flights"
	"github.com/flightman/flightman-api/internal/service/reference"
	"github.com/flightman/flightman-api/internal/service/users"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	referenceRepo := repository.NewReferenceRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	flightService := flights.NewFlightService(flightRepo, referenceRepo, redisCache)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		userRepo,
		referenceRepo,
		redisCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.LockTTLSeconds)*time.Second,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	checkinService := checkin.NewCheckInService(
		bookingRepo,
		flightRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.CheckInWindowHours)*time.Hour,
	)
	referenceService := reference.NewReferenceService(referenceRepo, redisCache)
	userService := users.NewUserService(userRepo)

	services := bootstrap.Services{
		Flights:   flightService,
		Bookings:  bookingService,
		CheckIn:   checkinService,
		Reference: referenceService,
		Users:     userService,
	}
	if err := bootstrap.Run(ctx, cfg, services); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
