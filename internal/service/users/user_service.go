package users

import (
	"context"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/flightman/flightman-api/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserUseCase interface {
	Register(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id string) (*domain.User, error)
	// AwardPoints moves the balance by delta (negative deducts) and returns
	// the new balance.
	AwardPoints(ctx context.Context, id string, delta int) (int, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Register(ctx context.Context, user *domain.User) error {
	if user.Email == "" {
		return domain.Reject(domain.ReasonInvalidUser, "email is required")
	}
	if user.RewardPoints < 0 {
		return domain.Reject(domain.ReasonInvalidUser, "reward points cannot start negative")
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("user registered")
	return nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrMalformedID
	}
	return s.users.GetByID(ctx, parsed)
}

func (s *UserService) AwardPoints(ctx context.Context, id string, delta int) (int, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return 0, domain.ErrMalformedID
	}
	user, err := s.users.GetByID(ctx, parsed)
	if err != nil {
		return 0, err
	}

	balance := user.RewardPoints + delta
	if balance < 0 {
		return 0, domain.Reject(domain.ReasonInsufficientPoints, "user %s holds %d points, cannot deduct %d", parsed, user.RewardPoints, -delta)
	}
	if err := s.users.UpdateRewardPoints(ctx, parsed, balance); err != nil {
		return 0, err
	}
	return balance, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrMalformedID
	}
	return s.users.Delete(ctx, parsed)
}

var _ UserUseCase = (*UserService)(nil)
