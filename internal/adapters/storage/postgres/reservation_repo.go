package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-rental-platform/internal/core/domain"
)

// ReservationRepository is the PostgreSQL implementation of the reservation
// port. Booking writes run inside a transaction that locks the vehicle row,
// so two concurrent bookings of the same vehicle serialize and the overlap
// predicate stays trustworthy.
type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `
	id, user_id, vehicle_id, car_model_id, start_date, end_date,
	status, total_price, currency, created_at, updated_at, cancelled_at
`

// overlapSQL counts conflicting bookings of one vehicle, inclusive on both
// bounds. $4 optionally excludes the reservation being edited.
const overlapSQL = `
	SELECT EXISTS (
		SELECT 1 FROM reservations
		WHERE vehicle_id = $1
		  AND status <> 'CANCELLED'
		  AND start_date <= $3
		  AND end_date >= $2
		  AND ($4::uuid IS NULL OR id <> $4)
	)
`

func (r *ReservationRepository) CreateBooked(ctx context.Context, res domain.Reservation) error {
	return r.bookInTx(ctx, res, func(ctx context.Context, tx pgx.Tx) error {
		const sql = `
			INSERT INTO reservations (` + reservationColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		_, err := tx.Exec(ctx, sql,
			res.ID, res.UserID, res.VehicleID, res.CarModelID,
			res.StartDate, res.EndDate, res.Status, res.TotalPrice,
			res.Currency, res.CreatedAt, res.UpdatedAt, res.CancelledAt,
		)
		return err
	}, nil)
}

func (r *ReservationRepository) UpdateBooked(ctx context.Context, res domain.Reservation) error {
	return r.bookInTx(ctx, res, func(ctx context.Context, tx pgx.Tx) error {
		const sql = `
			UPDATE reservations
			SET vehicle_id = $2, car_model_id = $3, start_date = $4,
			    end_date = $5, total_price = $6, updated_at = $7
			WHERE id = $1
		`
		tag, err := tx.Exec(ctx, sql,
			res.ID, res.VehicleID, res.CarModelID,
			res.StartDate, res.EndDate, res.TotalPrice, res.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrReservationNotFound
		}
		return nil
	}, &res.ID)
}

// bookInTx locks the vehicle row, re-runs the overlap check under the lock,
// and only then lets the write happen.
func (r *ReservationRepository) bookInTx(ctx context.Context, res domain.Reservation, write func(context.Context, pgx.Tx) error, excludeID *uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin booking transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var vehicleID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, res.VehicleID,
	).Scan(&vehicleID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrVehicleNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock vehicle: %w", err)
	}

	var conflict bool
	err = tx.QueryRow(ctx, overlapSQL, res.VehicleID, res.StartDate, res.EndDate, excludeID).Scan(&conflict)
	if err != nil {
		return fmt.Errorf("failed to re-check availability: %w", err)
	}
	if conflict {
		// A concurrent booking got the vehicle between the matcher's check
		// and this transaction.
		return domain.ErrNoAvailableVehicle
	}

	if err := write(ctx, tx); err != nil {
		return fmt.Errorf("failed to save reservation: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	return scanReservation(row)
}

func (r *ReservationRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

func (r *ReservationRepository) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()
	return scanReservations(rows)
}

// SaveStatus writes the reservation status and, when vehicleStatus is set,
// the vehicle status in one transaction. A pickup that crashes halfway must
// not leave the reservation ONGOING while the vehicle still reads AVAILABLE.
func (r *ReservationRepository) SaveStatus(ctx context.Context, res domain.Reservation, vehicleStatus *domain.VehicleStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin status transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const sql = `
		UPDATE reservations
		SET status = $2, updated_at = $3, cancelled_at = $4
		WHERE id = $1
	`
	tag, err := tx.Exec(ctx, sql, res.ID, res.Status, res.UpdatedAt, res.CancelledAt)
	if err != nil {
		return fmt.Errorf("failed to save reservation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}

	if vehicleStatus != nil {
		tag, err = tx.Exec(ctx,
			`UPDATE vehicles SET status = $2 WHERE id = $1`, res.VehicleID, *vehicleStatus)
		if err != nil {
			return fmt.Errorf("failed to save vehicle status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrVehicleNotFound
		}
	}
	return tx.Commit(ctx)
}

func (r *ReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return nil
}

func (r *ReservationRepository) HasOverlapping(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, overlapSQL, vehicleID, iv.Start, iv.End, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check overlapping reservations: %w", err)
	}
	return exists, nil
}

// ConfirmPayment only moves WAITING_FOR_PAYMENT to CONFIRMED, which makes a
// redelivered payment event harmless: a cancelled reservation stays
// cancelled.
func (r *ReservationRepository) ConfirmPayment(ctx context.Context, reservationID uuid.UUID, now time.Time) (bool, error) {
	const sql = `
		UPDATE reservations
		SET status = 'CONFIRMED', updated_at = $2
		WHERE id = $1 AND status = 'WAITING_FOR_PAYMENT'
	`
	tag, err := r.pool.Exec(ctx, sql, reservationID, now)
	if err != nil {
		return false, fmt.Errorf("failed to confirm reservation: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	err := row.Scan(
		&res.ID, &res.UserID, &res.VehicleID, &res.CarModelID,
		&res.StartDate, &res.EndDate, &res.Status, &res.TotalPrice,
		&res.Currency, &res.CreatedAt, &res.UpdatedAt, &res.CancelledAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan reservation: %w", err)
	}
	return &res, nil
}

func scanReservations(rows pgx.Rows) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}
