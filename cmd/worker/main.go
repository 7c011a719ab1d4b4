package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flightman/flightman-api/config"
	"github.com/flightman/flightman-api/internal/email"
	"github.com/flightman/flightman-api/internal/kafka"
	"github.com/flightman/flightman-api/internal/repository"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logrus.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	bookingRepo := repository.NewBookingRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	emailSender := email.NewSender()

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			logrus.Errorf("consumer stopped: %v", err)
		}
	}()

	purgeTicker := time.NewTicker(time.Duration(cfg.Worker.PurgeSweepMinutes) * time.Minute)
	defer purgeTicker.Stop()

	retention := time.Duration(cfg.Worker.CancelledRetentionDays) * 24 * time.Hour

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-purgeTicker.C:
			purged, err := bookingRepo.PurgeCancelledBefore(ctx, time.Now().Add(-retention))
			if err != nil {
				logrus.Errorf("purge cancelled bookings error: %v", err)
				continue
			}
			if purged > 0 {
				logrus.Infof("purged %d cancelled bookings", purged)
			}
		case s := <-sig:
			logrus.Infof("received signal %v, shutting down", s)
			return
		}
	}
}
