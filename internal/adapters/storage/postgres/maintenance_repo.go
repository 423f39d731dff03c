package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-rental-platform/internal/core/domain"
)

type MaintenanceRepository struct {
	pool *pgxpool.Pool
}

func NewMaintenanceRepository(pool *pgxpool.Pool) *MaintenanceRepository {
	return &MaintenanceRepository{pool: pool}
}

func (r *MaintenanceRepository) HasUpcomingInInterval(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval) (bool, error) {
	const sql = `
		SELECT EXISTS (
			SELECT 1 FROM maintenance_records
			WHERE vehicle_id = $1
			  AND status = 'UPCOMING'
			  AND date BETWEEN $2 AND $3
		)
	`
	var exists bool
	err := r.pool.QueryRow(ctx, sql, vehicleID, iv.Start, iv.End).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check upcoming maintenance: %w", err)
	}
	return exists, nil
}
