package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-rental-platform/internal/core/domain"
)

type CarModelRepository struct {
	pool *pgxpool.Pool
}

func NewCarModelRepository(pool *pgxpool.Pool) *CarModelRepository {
	return &CarModelRepository{pool: pool}
}

const carModelColumns = `id, brand, model_name, year, seats, transmission, fuel_type, price_per_day`

func (r *CarModelRepository) Create(ctx context.Context, m domain.CarModel) error {
	const sql = `
		INSERT INTO car_models (` + carModelColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, sql,
		m.ID, m.Brand, m.ModelName, m.Year, m.Seats, m.Transmission, m.FuelType, m.PricePerDay)
	if err != nil {
		return fmt.Errorf("failed to create car model: %w", err)
	}
	return nil
}

func (r *CarModelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.CarModel, error) {
	var m domain.CarModel
	err := r.pool.QueryRow(ctx,
		`SELECT `+carModelColumns+` FROM car_models WHERE id = $1`, id,
	).Scan(&m.ID, &m.Brand, &m.ModelName, &m.Year, &m.Seats, &m.Transmission, &m.FuelType, &m.PricePerDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCarModelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get car model: %w", err)
	}
	return &m, nil
}

func (r *CarModelRepository) ListAll(ctx context.Context) ([]domain.CarModel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+carModelColumns+` FROM car_models ORDER BY brand, model_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list car models: %w", err)
	}
	defer rows.Close()

	var out []domain.CarModel
	for rows.Next() {
		var m domain.CarModel
		if err := rows.Scan(&m.ID, &m.Brand, &m.ModelName, &m.Year, &m.Seats, &m.Transmission, &m.FuelType, &m.PricePerDay); err != nil {
			return nil, fmt.Errorf("failed to scan car model: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
