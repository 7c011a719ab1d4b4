package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/flightman/flightman-api/api"
	"github.com/flightman/flightman-api/config"
	"github.com/flightman/flightman-api/internal/service/booking"
	"github.com/flightman/flightman-api/internal/service/checkin"
	"github.com/flightman/flightman-api/internal/service/flights"
	"github.com/flightman/flightman-api/internal/service/reference"
	"github.com/flightman/flightman-api/internal/service/users"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services bundles everything the HTTP surface exposes.
type Services struct {
	Flights   flights.FlightUseCase
	Bookings  booking.BookingUseCase
	CheckIn   checkin.CheckInUseCase
	Reference reference.ReferenceUseCase
	Users     users.UserUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	router := gin.New()
	router.Use(gin.Recovery())

	group := router.Group("/api")
	api.NewBookingHandler(svc.Bookings, svc.CheckIn).Register(group)
	api.NewFlightHandler(svc.Flights).Register(group)
	api.NewReferenceHandler(svc.Reference).Register(group)
	api.NewUserHandler(svc.Users).Register(group)

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger-spec", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger-spec/api.swagger.json"),
		)))
	}

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
