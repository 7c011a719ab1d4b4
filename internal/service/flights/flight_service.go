package flights

import (
	"context"
	"time"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/flightman/flightman-api/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, sourceAbv, destAbv string) ([]domain.Flight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, id uuid.UUID, departure, arrival *time.Time, modelID *int) (*domain.Flight, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ValidateAirport(ctx context.Context, id uuid.UUID) bool
	ValidateFlightModel(ctx context.Context, id int) bool
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo      repository.FlightRepository
	reference repository.ReferenceRepository
	cache     FlightCache
}

func NewFlightService(repo repository.FlightRepository, reference repository.ReferenceRepository, cache FlightCache) *FlightService {
	return &FlightService{repo: repo, reference: reference, cache: cache}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) Search(ctx context.Context, sourceAbv, destAbv string) ([]domain.Flight, error) {
	if sourceAbv == "" && destAbv == "" {
		return s.List(ctx)
	}
	return s.repo.Search(ctx, sourceAbv, destAbv)
}

func (s *FlightService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, flight *domain.Flight) error {
	if !s.ValidateAirport(ctx, flight.SourceAirportID) || !s.ValidateAirport(ctx, flight.DestAirportID) {
		return domain.Reject(domain.ReasonInvalidFlight, "unknown source or destination airport")
	}
	if !s.ValidateFlightModel(ctx, flight.FlightModelID) {
		return domain.Reject(domain.ReasonInvalidFlight, "unknown flight model %d", flight.FlightModelID)
	}

	if err := s.repo.Save(ctx, flight); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	logrus.WithField("flight_id", flight.ID).Info("flight created")
	return nil
}

func (s *FlightService) Update(ctx context.Context, id uuid.UUID, departure, arrival *time.Time, modelID *int) (*domain.Flight, error) {
	if modelID != nil && !s.ValidateFlightModel(ctx, *modelID) {
		return nil, domain.Reject(domain.ReasonInvalidFlight, "unknown flight model %d", *modelID)
	}
	flight, err := s.repo.Update(ctx, id, departure, arrival, modelID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	return flight, nil
}

// Delete removes the flight together with its bookings.
func (s *FlightService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
	logrus.WithField("flight_id", id).Info("flight deleted")
	return nil
}

func (s *FlightService) ValidateAirport(ctx context.Context, id uuid.UUID) bool {
	_, err := s.reference.GetAirportByID(ctx, id)
	return err == nil
}

func (s *FlightService) ValidateFlightModel(ctx context.Context, id int) bool {
	_, err := s.reference.GetModelByID(ctx, id)
	return err == nil
}

var _ FlightUseCase = (*FlightService)(nil)
