package repository

import (
	"context"
	"time"

	"github.com/flightman/flightman-api/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	List(ctx context.Context, userID *uuid.UUID) ([]domain.Booking, error)
	CountForFlightDate(ctx context.Context, flightID uuid.UUID, date time.Time) (int, error)
	SeatTaken(ctx context.Context, flightID uuid.UUID, date time.Time, seat string) (bool, error)
	// Create commits the booking insert, the occupancy increment and the
	// user's new point balance as one transaction. The occupancy update is
	// guarded by the model's seat capacity; a full flight rolls back the
	// whole write set.
	Create(ctx context.Context, booking *domain.Booking, userBalance int) error
	// Cancel marks the booking cancelled, releases its seat and commits the
	// refunded balance, atomically.
	Cancel(ctx context.Context, bookingID uuid.UUID, userBalance int) error
	SetPassengerCheckedIn(ctx context.Context, bookingID uuid.UUID) error
	SetLuggage(ctx context.Context, bookingID uuid.UUID, count int, weightKg float64) error
	PurgeCancelledBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, user_id, flight_id, seat_number, flight_date, status, payment_status, points_paid, passenger_checked_in, luggage_checked_in, luggage_count, luggage_weight_kg, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.SeatNumber, &b.FlightDate, &b.Status, &b.PaymentStatus, &b.PointsPaid, &b.PassengerCheckedIn, &b.LuggageCheckedIn, &b.LuggageCount, &b.LuggageWeightKg, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, wrapStorage(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id))
}

func (r *PGBookingRepository) List(ctx context.Context, userID *uuid.UUID) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ($1::uuid IS NULL OR user_id=$1) ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapStorage(err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, wrapStorage(rows.Err())
}

func (r *PGBookingRepository) CountForFlightDate(ctx context.Context, flightID uuid.UUID, date time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE flight_id=$1 AND flight_date=$2 AND status=$3`,
		flightID, date, domain.BookingStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, wrapStorage(err)
	}
	return count, nil
}

func (r *PGBookingRepository) SeatTaken(ctx context.Context, flightID uuid.UUID, date time.Time, seat string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE flight_id=$1 AND flight_date=$2 AND seat_number=$3 AND status=$4)`,
		flightID, date, seat, domain.BookingStatusConfirmed).Scan(&taken)
	if err != nil {
		return false, wrapStorage(err)
	}
	return taken, nil
}

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, userBalance int) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrapStorage(err)
	}
	defer tx.Rollback(ctx)

	var occupied int
	err = tx.QueryRow(ctx, `UPDATE flights SET occupied_seats = occupied_seats + 1, updated_at = now()
		WHERE id=$1 AND occupied_seats < (SELECT seat_capacity FROM flight_models WHERE id = flights.flight_model_id)
		RETURNING occupied_seats`, booking.FlightID).Scan(&occupied)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Reject(domain.ReasonFlightFull, "flight %s has no remaining capacity", booking.FlightID)
		}
		return wrapStorage(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET reward_points=$1, updated_at=now() WHERE id=$2`, userBalance, booking.UserID); err != nil {
		return wrapStorage(err)
	}

	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.Status = domain.BookingStatusConfirmed
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, user_id, flight_id, seat_number, flight_date, status, payment_status, points_paid)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		booking.ID, booking.UserID, booking.FlightID, booking.SeatNumber, booking.FlightDate, booking.Status, booking.PaymentStatus, booking.PointsPaid).
		Scan(&booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return wrapStorage(err)
	}

	return wrapStorage(tx.Commit(ctx))
}

func (r *PGBookingRepository) Cancel(ctx context.Context, bookingID uuid.UUID, userBalance int) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return wrapStorage(err)
	}
	defer tx.Rollback(ctx)

	var userID, flightID uuid.UUID
	err = tx.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2 AND status=$3 RETURNING user_id, flight_id`,
		domain.BookingStatusCancelled, bookingID, domain.BookingStatusConfirmed).Scan(&userID, &flightID)
	if err != nil {
		return wrapStorage(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE flights SET occupied_seats = GREATEST(occupied_seats - 1, 0), updated_at=now() WHERE id=$1`, flightID); err != nil {
		return wrapStorage(err)
	}

	if _, err := tx.Exec(ctx, `UPDATE users SET reward_points=$1, updated_at=now() WHERE id=$2`, userBalance, userID); err != nil {
		return wrapStorage(err)
	}

	return wrapStorage(tx.Commit(ctx))
}

func (r *PGBookingRepository) SetPassengerCheckedIn(ctx context.Context, bookingID uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET passenger_checked_in=true, updated_at=now() WHERE id=$1 AND status=$2`,
		bookingID, domain.BookingStatusConfirmed)
	if err != nil {
		return wrapStorage(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGBookingRepository) SetLuggage(ctx context.Context, bookingID uuid.UUID, count int, weightKg float64) error {
	cmd, err := r.db.Exec(ctx, `UPDATE bookings SET luggage_checked_in=true, luggage_count=$1, luggage_weight_kg=$2, updated_at=now()
		WHERE id=$3 AND luggage_checked_in=false`, count, weightKg, bookingID)
	if err != nil {
		return wrapStorage(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.Reject(domain.ReasonAlreadyCheckedIn, "luggage already checked in for booking %s", bookingID)
	}
	return nil
}

func (r *PGBookingRepository) PurgeCancelledBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE status=$1 AND updated_at <= $2`, domain.BookingStatusCancelled, cutoff)
	if err != nil {
		return 0, wrapStorage(err)
	}
	return cmd.RowsAffected(), nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
