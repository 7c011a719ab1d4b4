package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
	UpdateRewardPoints(ctx context.Context, id uuid.UUID, balance int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PGUserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) UserRepository {
	return &PGUserRepository{db: db}
}

// wrapStorage maps driver errors onto the domain taxonomy: missing rows are
// NotFound, everything else is a storage fault.
func wrapStorage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
}

func (r *PGUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, first_name, last_name, email, phone, reward_points, created_at, updated_at FROM users WHERE id=$1`, id)
	var u domain.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.RewardPoints, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, wrapStorage(err)
	}
	return &u, nil
}

func (r *PGUserRepository) Save(ctx context.Context, user *domain.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `INSERT INTO users (id, first_name, last_name, email, phone, reward_points)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET first_name=$2, last_name=$3, email=$4, phone=$5, reward_points=$6, updated_at=now()
		RETURNING created_at, updated_at`, user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.RewardPoints).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	return wrapStorage(err)
}

func (r *PGUserRepository) UpdateRewardPoints(ctx context.Context, id uuid.UUID, balance int) error {
	cmd, err := r.db.Exec(ctx, `UPDATE users SET reward_points=$1, updated_at=now() WHERE id=$2`, balance, id)
	if err != nil {
		return wrapStorage(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return wrapStorage(err)
}

var _ UserRepository = (*PGUserRepository)(nil)
