package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-rental-platform/internal/core/domain"
)

type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

const vehicleColumns = `id, car_model_id, license_plate, vin, kilometers, status, created_at`

func (r *VehicleRepository) Create(ctx context.Context, v domain.Vehicle) error {
	const sql = `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, sql,
		v.ID, v.CarModelID, v.LicensePlate, v.VIN, v.Kilometers, v.Status, v.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// unique_violation on plate or VIN
		return domain.ErrDuplicateVehicle
	}
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	var v domain.Vehicle
	err := r.pool.QueryRow(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id,
	).Scan(&v.ID, &v.CarModelID, &v.LicensePlate, &v.VIN, &v.Kilometers, &v.Status, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return &v, nil
}

// ListAvailableByModel orders by creation so the matcher's first-created-wins
// tie-break falls out of the query.
func (r *VehicleRepository) ListAvailableByModel(ctx context.Context, carModelID uuid.UUID) ([]domain.Vehicle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles
		 WHERE car_model_id = $1 AND status = 'AVAILABLE'
		 ORDER BY created_at, id`, carModelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var out []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.ID, &v.CarModelID, &v.LicensePlate, &v.VIN, &v.Kilometers, &v.Status, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VehicleRepository) SaveStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE vehicles SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to save vehicle status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}
