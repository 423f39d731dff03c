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

// TransferRepository stores pickups and dropoffs, keyed by the owning
// reservation and the transfer kind. Writes bump the reservation's updated-at
// in the same transaction, so a retried request sees either both changes or
// neither.
type TransferRepository struct {
	pool *pgxpool.Pool
}

func NewTransferRepository(pool *pgxpool.Pool) *TransferRepository {
	return &TransferRepository{pool: pool}
}

const transferColumns = `reservation_id, type, date, location, staff_id, created_at, updated_at`

func (r *TransferRepository) Get(ctx context.Context, reservationID uuid.UUID, kind domain.TransferType) (*domain.Transfer, error) {
	var t domain.Transfer
	err := r.pool.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE reservation_id = $1 AND type = $2`,
		reservationID, kind,
	).Scan(&t.ReservationID, &t.Type, &t.Date, &t.Location, &t.StaffID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransferNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	return &t, nil
}

func (r *TransferRepository) Create(ctx context.Context, t domain.Transfer) error {
	return r.writeInTx(ctx, t.ReservationID, t.CreatedAt, func(ctx context.Context, tx pgx.Tx) error {
		const sql = `
			INSERT INTO transfers (` + transferColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.Exec(ctx, sql,
			t.ReservationID, t.Type, t.Date, t.Location, t.StaffID, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create transfer: %w", err)
		}
		return nil
	})
}

func (r *TransferRepository) Update(ctx context.Context, t domain.Transfer) error {
	var touchedAt time.Time
	if t.UpdatedAt != nil {
		touchedAt = *t.UpdatedAt
	}
	return r.writeInTx(ctx, t.ReservationID, touchedAt, func(ctx context.Context, tx pgx.Tx) error {
		const sql = `
			UPDATE transfers
			SET date = $3, location = $4, staff_id = $5, updated_at = $6
			WHERE reservation_id = $1 AND type = $2
		`
		tag, err := tx.Exec(ctx, sql,
			t.ReservationID, t.Type, t.Date, t.Location, t.StaffID, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update transfer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTransferNotFound
		}
		return nil
	})
}

func (r *TransferRepository) Delete(ctx context.Context, reservationID uuid.UUID, kind domain.TransferType, now time.Time) error {
	return r.writeInTx(ctx, reservationID, now, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM transfers WHERE reservation_id = $1 AND type = $2`, reservationID, kind)
		if err != nil {
			return fmt.Errorf("failed to delete transfer: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrTransferNotFound
		}
		return nil
	})
}

// writeInTx wraps a transfer write together with the owning reservation's
// updated-at bump.
func (r *TransferRepository) writeInTx(ctx context.Context, reservationID uuid.UUID, touchedAt time.Time, write func(context.Context, pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transfer transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := write(ctx, tx); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE reservations SET updated_at = $2 WHERE id = $1`, reservationID, touchedAt)
	if err != nil {
		return fmt.Errorf("failed to touch reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrReservationNotFound
	}
	return tx.Commit(ctx)
}
