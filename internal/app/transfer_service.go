package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/core/ports"
)

// transferService manages the pickup/dropoff records hanging off a
// reservation.
type transferService struct {
	transfers    ports.TransferRepository
	reservations ports.ReservationRepository
	users        ports.UserDirectory
	logger       *slog.Logger
	now          func() time.Time
}

func NewTransferService(
	transfers ports.TransferRepository,
	reservations ports.ReservationRepository,
	users ports.UserDirectory,
	logger *slog.Logger,
) ports.TransferService {
	return &transferService{
		transfers:    transfers,
		reservations: reservations,
		users:        users,
		logger:       logger,
		now:          time.Now,
	}
}

// validate enforces the transfer rules: a pickup happens on the start date of
// a CONFIRMED reservation, a dropoff on the end date of a CONFIRMED or
// ONGOING one, and any assigned staff member must actually be staff.
func (s *transferService) validate(ctx context.Context, kind domain.TransferType, res *domain.Reservation, t domain.Transfer) error {
	switch kind {
	case domain.TransferPickup:
		if res.Status != domain.StatusConfirmed {
			return domain.ErrInvalidReservationStatus
		}
		if !sameDay(t.Date, res.StartDate) {
			return domain.ErrTransferDateMismatch
		}
	case domain.TransferDropoff:
		if res.Status != domain.StatusConfirmed && res.Status != domain.StatusOngoing {
			return domain.ErrInvalidReservationStatus
		}
		if !sameDay(t.Date, res.EndDate) {
			return domain.ErrTransferDateMismatch
		}
	default:
		return domain.ErrInvalidTransferType
	}

	if t.StaffID != nil {
		staff, err := s.users.GetUserByID(ctx, *t.StaffID)
		if err != nil {
			return err
		}
		if staff.Role != domain.RoleStaff {
			return domain.ErrUnauthorizedRole
		}
	}
	return nil
}

func (s *transferService) Assign(ctx context.Context, kind domain.TransferType, reservationID uuid.UUID, t domain.Transfer) (*domain.Transfer, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.transfers.Get(ctx, reservationID, kind); err == nil {
		return nil, domain.ErrTransferAlreadyExists
	} else if !errors.Is(err, domain.ErrTransferNotFound) {
		return nil, err
	}

	if err := s.validate(ctx, kind, res, t); err != nil {
		return nil, err
	}

	t.ReservationID = reservationID
	t.Type = kind
	t.CreatedAt = s.now()
	if err := s.transfers.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("transfer assigned", "reservation_id", reservationID, "type", kind)
	return &t, nil
}

func (s *transferService) Update(ctx context.Context, kind domain.TransferType, reservationID uuid.UUID, t domain.Transfer) (*domain.Transfer, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if err := s.validate(ctx, kind, res, t); err != nil {
		return nil, err
	}

	now := s.now()
	t.ReservationID = reservationID
	t.Type = kind

	existing, err := s.transfers.Get(ctx, reservationID, kind)
	switch {
	case errors.Is(err, domain.ErrTransferNotFound):
		// Update doubles as create when the record is absent.
		t.CreatedAt = now
		err = s.transfers.Create(ctx, t)
	case err == nil:
		t.CreatedAt = existing.CreatedAt
		t.UpdatedAt = &now
		err = s.transfers.Update(ctx, t)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer updated", "reservation_id", reservationID, "type", kind)
	return &t, nil
}

func (s *transferService) Remove(ctx context.Context, kind domain.TransferType, reservationID uuid.UUID) error {
	if _, err := s.transfers.Get(ctx, reservationID, kind); err != nil {
		return err
	}
	if err := s.transfers.Delete(ctx, reservationID, kind, s.now()); err != nil {
		return err
	}
	s.logger.Info("transfer removed", "reservation_id", reservationID, "type", kind)
	return nil
}

func (s *transferService) Get(ctx context.Context, kind domain.TransferType, reservationID uuid.UUID) (*domain.Transfer, error) {
	return s.transfers.Get(ctx, reservationID, kind)
}

// sameDay compares calendar days in UTC; transfer timestamps carry a time of
// day while reservation bounds sit at midnight.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
