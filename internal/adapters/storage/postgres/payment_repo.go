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

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, reservation_id, user_id, amount, currency, status, created_at, completed_at`

func (r *PaymentRepository) Create(ctx context.Context, p domain.Payment) error {
	const sql = `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, sql,
		p.ID, p.ReservationID, p.UserID, p.Amount, p.Currency, p.Status, p.CreatedAt, p.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	var p domain.Payment
	err := r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id,
	).Scan(&p.ID, &p.ReservationID, &p.UserID, &p.Amount, &p.Currency, &p.Status, &p.CreatedAt, &p.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

// MarkCompleted is a no-op on an already-completed payment; the WHERE clause
// keeps the original completion time intact.
func (r *PaymentRepository) MarkCompleted(ctx context.Context, id uuid.UUID, now time.Time) (*domain.Payment, error) {
	const sql = `
		UPDATE payments
		SET status = 'COMPLETED', completed_at = $2
		WHERE id = $1 AND status = 'PENDING'
	`
	if _, err := r.pool.Exec(ctx, sql, id, now); err != nil {
		return nil, fmt.Errorf("failed to complete payment: %w", err)
	}
	return r.GetByID(ctx, id)
}
