package repository

import (
	"context"
	"time"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error)
	// Search filters by airport abbreviation; either side may be empty.
	Search(ctx context.Context, sourceAbv, destAbv string) ([]domain.Flight, error)
	Save(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, id uuid.UUID, departure, arrival *time.Time, modelID *int) (*domain.Flight, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, source_airport_id, dest_airport_id, flight_model_id, departure_time, arrival_time, occupied_seats, reward_points_cost, created_at, updated_at`

func scanFlight(row interface{ Scan(...any) error }) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(&f.ID, &f.SourceAirportID, &f.DestAirportID, &f.FlightModelID, &f.DepartureTime, &f.ArrivalTime, &f.OccupiedSeats, &f.RewardPointsCost, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, wrapStorage(err)
	}
	return &f, nil
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, wrapStorage(err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, wrapStorage(rows.Err())
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id))
}

func (r *PGFlightRepository) Search(ctx context.Context, sourceAbv, destAbv string) ([]domain.Flight, error) {
	query := `SELECT f.id, f.source_airport_id, f.dest_airport_id, f.flight_model_id, f.departure_time, f.arrival_time, f.occupied_seats, f.reward_points_cost, f.created_at, f.updated_at
		FROM flights f
		JOIN airports src ON src.id = f.source_airport_id
		JOIN airports dst ON dst.id = f.dest_airport_id
		WHERE ($1 = '' OR src.abv_name = $1) AND ($2 = '' OR dst.abv_name = $2)
		ORDER BY f.departure_time`
	rows, err := r.db.Query(ctx, query, sourceAbv, destAbv)
	if err != nil {
		return nil, wrapStorage(err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, wrapStorage(rows.Err())
}

func (r *PGFlightRepository) Save(ctx context.Context, flight *domain.Flight) error {
	if flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx, `INSERT INTO flights (id, source_airport_id, dest_airport_id, flight_model_id, departure_time, arrival_time, occupied_seats, reward_points_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		flight.ID, flight.SourceAirportID, flight.DestAirportID, flight.FlightModelID, flight.DepartureTime, flight.ArrivalTime, flight.OccupiedSeats, flight.RewardPointsCost).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
	return wrapStorage(err)
}

func (r *PGFlightRepository) Update(ctx context.Context, id uuid.UUID, departure, arrival *time.Time, modelID *int) (*domain.Flight, error) {
	return scanFlight(r.db.QueryRow(ctx, `UPDATE flights SET
			departure_time = COALESCE($1, departure_time),
			arrival_time = COALESCE($2, arrival_time),
			flight_model_id = COALESCE($3, flight_model_id),
			updated_at = now()
		WHERE id=$4 RETURNING `+flightColumns, departure, arrival, modelID, id))
}

func (r *PGFlightRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return wrapStorage(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE flight_id=$1`, id); err != nil {
		return wrapStorage(err)
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return wrapStorage(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return wrapStorage(tx.Commit(ctx))
}

var _ FlightRepository = (*PGFlightRepository)(nil)
