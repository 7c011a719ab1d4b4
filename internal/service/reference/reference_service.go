package reference

import (
	"context"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/flightman/flightman-api/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReferenceUseCase manages the airport and flight-model records flights
// point at.
type ReferenceUseCase interface {
	AirportByAbv(ctx context.Context, abv string) (*domain.Airport, error)
	SaveAirport(ctx context.Context, airport *domain.Airport) error
	DeleteAirport(ctx context.Context, id uuid.UUID) error
	ListModels(ctx context.Context) ([]domain.FlightModel, error)
	SaveModel(ctx context.Context, model *domain.FlightModel) error
	DeleteModel(ctx context.Context, id int) error
}

type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type ReferenceService struct {
	repo  repository.ReferenceRepository
	cache Cache
}

func NewReferenceService(repo repository.ReferenceRepository, cache Cache) *ReferenceService {
	return &ReferenceService{repo: repo, cache: cache}
}

func (s *ReferenceService) AirportByAbv(ctx context.Context, abv string) (*domain.Airport, error) {
	return s.repo.GetAirportByAbv(ctx, abv)
}

func (s *ReferenceService) SaveAirport(ctx context.Context, airport *domain.Airport) error {
	if airport.AbvName == "" {
		return domain.Reject(domain.ReasonInvalidFlight, "airport abbreviation is required")
	}
	if err := s.repo.SaveAirport(ctx, airport); err != nil {
		return err
	}
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{"airport_id": airport.ID, "abv": airport.AbvName}).Info("airport saved")
	return nil
}

func (s *ReferenceService) DeleteAirport(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteAirport(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ReferenceService) ListModels(ctx context.Context) ([]domain.FlightModel, error) {
	return s.repo.ListModels(ctx)
}

func (s *ReferenceService) SaveModel(ctx context.Context, model *domain.FlightModel) error {
	if model.SeatCapacity <= 0 {
		return domain.Reject(domain.ReasonInvalidFlight, "flight model needs a positive seat capacity")
	}
	if model.SeatsPerRow <= 0 || model.SeatsPerRow > model.SeatCapacity {
		return domain.Reject(domain.ReasonInvalidFlight, "flight model needs 1..%d seats per row", model.SeatCapacity)
	}
	if err := s.repo.SaveModel(ctx, model); err != nil {
		return err
	}
	s.invalidate(ctx)
	logrus.WithFields(logrus.Fields{"model_id": model.ID, "code": model.Code}).Info("flight model saved")
	return nil
}

func (s *ReferenceService) DeleteModel(ctx context.Context, id int) error {
	if err := s.repo.DeleteModel(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// capacity and abbreviation changes show through the cached flight listing
func (s *ReferenceService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
}

var _ ReferenceUseCase = (*ReferenceService)(nil)
