package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/core/ports"
)

// userService is the user-management core behind the user collaborator API.
type userService struct {
	users    ports.UserRepository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewUserService(users ports.UserRepository, validate *validator.Validate, logger *slog.Logger) ports.UserService {
	return &userService{
		users:    users,
		validate: validate,
		logger:   logger,
	}
}

func (s *userService) Register(ctx context.Context, u domain.User) (*domain.User, error) {
	if err := s.validate.Struct(u); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role)
	return &u, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *userService) GetAll(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAll(ctx)
}

func (s *userService) Update(ctx context.Context, u domain.User) (*domain.User, error) {
	if err := s.validate.Struct(u); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	existing, err := s.users.GetByID(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = existing.CreatedAt

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("user updated", "user_id", u.ID)
	return &u, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", id)
	return nil
}

func (s *userService) SaveProfile(ctx context.Context, id uuid.UUID, p domain.CustomerProfile) (*domain.User, error) {
	if err := s.validate.Struct(p); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.users.SaveProfile(ctx, id, p); err != nil {
		return nil, err
	}
	user.Profile = &p

	s.logger.Info("customer profile saved", "user_id", id)
	return user, nil
}
