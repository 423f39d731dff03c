package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"car-rental-platform/internal/core/domain"
)

// UserRepository stores users and their optional customer profiles. The
// profile columns live on the users table; a NULL license number means "no
// profile yet".
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, full_name, role, license_number, license_expiry, phone, created_at`

func (r *UserRepository) Create(ctx context.Context, u domain.User) error {
	const sql = `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var licenseNumber, phone *string
	var licenseExpiry *time.Time
	if u.Profile != nil {
		licenseNumber = &u.Profile.LicenseNumber
		licenseExpiry = &u.Profile.LicenseExpiry
		phone = &u.Profile.Phone
	}
	_, err := r.pool.Exec(ctx, sql,
		u.ID, u.Email, u.FullName, u.Role, licenseNumber, licenseExpiry, phone, u.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	return u, err
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u domain.User) error {
	const sql = `
		UPDATE users SET email = $2, full_name = $3, role = $4 WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, sql, u.ID, u.Email, u.FullName, u.Role)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SaveProfile(ctx context.Context, id uuid.UUID, p domain.CustomerProfile) error {
	const sql = `
		UPDATE users
		SET license_number = $2, license_expiry = $3, phone = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, sql, id, p.LicenseNumber, p.LicenseExpiry, p.Phone)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var licenseNumber, phone *string
	var licenseExpiry *time.Time
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &licenseNumber, &licenseExpiry, &phone, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if licenseNumber != nil && licenseExpiry != nil {
		u.Profile = &domain.CustomerProfile{
			LicenseNumber: *licenseNumber,
			LicenseExpiry: *licenseExpiry,
		}
		if phone != nil {
			u.Profile.Phone = *phone
		}
	}
	return &u, nil
}
