package repository

import (
	"context"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferenceRepository serves the read-mostly airport and flight-model data
// every flight row points at.
type ReferenceRepository interface {
	GetAirportByID(ctx context.Context, id uuid.UUID) (*domain.Airport, error)
	GetAirportByAbv(ctx context.Context, abv string) (*domain.Airport, error)
	SaveAirport(ctx context.Context, airport *domain.Airport) error
	DeleteAirport(ctx context.Context, id uuid.UUID) error
	GetModelByID(ctx context.Context, id int) (*domain.FlightModel, error)
	ListModels(ctx context.Context) ([]domain.FlightModel, error)
	SaveModel(ctx context.Context, model *domain.FlightModel) error
	DeleteModel(ctx context.Context, id int) error
}

type PGReferenceRepository struct {
	db *pgxpool.Pool
}

func NewReferenceRepository(db *pgxpool.Pool) ReferenceRepository {
	return &PGReferenceRepository{db: db}
}

func (r *PGReferenceRepository) GetAirportByID(ctx context.Context, id uuid.UUID) (*domain.Airport, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, abv_name, latitude, longitude FROM airports WHERE id=$1`, id)
	var a domain.Airport
	if err := row.Scan(&a.ID, &a.Name, &a.AbvName, &a.Latitude, &a.Longitude); err != nil {
		return nil, wrapStorage(err)
	}
	return &a, nil
}

func (r *PGReferenceRepository) GetAirportByAbv(ctx context.Context, abv string) (*domain.Airport, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, abv_name, latitude, longitude FROM airports WHERE abv_name=$1`, abv)
	var a domain.Airport
	if err := row.Scan(&a.ID, &a.Name, &a.AbvName, &a.Latitude, &a.Longitude); err != nil {
		return nil, wrapStorage(err)
	}
	return &a, nil
}

func (r *PGReferenceRepository) SaveAirport(ctx context.Context, airport *domain.Airport) error {
	if airport.ID == uuid.Nil {
		airport.ID = uuid.New()
	}
	_, err := r.db.Exec(ctx, `INSERT INTO airports (id, name, abv_name, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET name=$2, abv_name=$3, latitude=$4, longitude=$5`,
		airport.ID, airport.Name, airport.AbvName, airport.Latitude, airport.Longitude)
	return wrapStorage(err)
}

func (r *PGReferenceRepository) DeleteAirport(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM airports WHERE id=$1`, id)
	return wrapStorage(err)
}

func (r *PGReferenceRepository) GetModelByID(ctx context.Context, id int) (*domain.FlightModel, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, code, seat_capacity, seats_per_row FROM flight_models WHERE id=$1`, id)
	var m domain.FlightModel
	if err := row.Scan(&m.ID, &m.Name, &m.Code, &m.SeatCapacity, &m.SeatsPerRow); err != nil {
		return nil, wrapStorage(err)
	}
	return &m, nil
}

func (r *PGReferenceRepository) ListModels(ctx context.Context) ([]domain.FlightModel, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, code, seat_capacity, seats_per_row FROM flight_models ORDER BY id`)
	if err != nil {
		return nil, wrapStorage(err)
	}
	defer rows.Close()

	models := make([]domain.FlightModel, 0)
	for rows.Next() {
		var m domain.FlightModel
		if err := rows.Scan(&m.ID, &m.Name, &m.Code, &m.SeatCapacity, &m.SeatsPerRow); err != nil {
			return nil, wrapStorage(err)
		}
		models = append(models, m)
	}
	return models, wrapStorage(rows.Err())
}

func (r *PGReferenceRepository) SaveModel(ctx context.Context, model *domain.FlightModel) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flight_models (name, code, seat_capacity, seats_per_row)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		model.Name, model.Code, model.SeatCapacity, model.SeatsPerRow).Scan(&model.ID)
	return wrapStorage(err)
}

func (r *PGReferenceRepository) DeleteModel(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM flight_models WHERE id=$1`, id)
	return wrapStorage(err)
}

var _ ReferenceRepository = (*PGReferenceRepository)(nil)
