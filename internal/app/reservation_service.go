package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/core/ports"
)

// reservationService is the implementation of the ReservationService port.
// It owns the reservation lifecycle and delegates vehicle selection to the
// availability matcher.
type reservationService struct {
	reservations ports.ReservationRepository
	vehicles     ports.VehicleRepository
	catalog      ports.CarModelRepository
	matcher      ports.AvailabilityMatcher
	users        ports.UserDirectory
	payments     ports.PaymentGateway
	logger       *slog.Logger
	now          func() time.Time
}

func NewReservationService(
	reservations ports.ReservationRepository,
	vehicles ports.VehicleRepository,
	catalog ports.CarModelRepository,
	matcher ports.AvailabilityMatcher,
	users ports.UserDirectory,
	payments ports.PaymentGateway,
	logger *slog.Logger,
) ports.ReservationService {
	return &reservationService{
		reservations: reservations,
		vehicles:     vehicles,
		catalog:      catalog,
		matcher:      matcher,
		users:        users,
		payments:     payments,
		logger:       logger,
		now:          time.Now,
	}
}

// checkEligibility verifies the booking user: must exist, be a CUSTOMER,
// carry a profile, and hold a license valid through the end of the rental.
func (s *reservationService) checkEligibility(ctx context.Context, userID uuid.UUID, iv domain.DateInterval) error {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != domain.RoleCustomer {
		return domain.ErrUnauthorizedRole
	}
	if user.Profile == nil {
		return domain.ErrMissingProfile
	}
	if !user.CanDriveUntil(iv.End) {
		return domain.ErrLicenseExpired
	}
	return nil
}

func (s *reservationService) Create(ctx context.Context, userID, carModelID uuid.UUID, iv domain.DateInterval) (*domain.Reservation, error) {
	now := s.now()
	if !iv.Start.After(now) {
		return nil, domain.ErrIntervalInPast
	}

	if err := s.checkEligibility(ctx, userID, iv); err != nil {
		return nil, err
	}

	model, err := s.catalog.GetByID(ctx, carModelID)
	if err != nil {
		return nil, err
	}

	vehicle, err := s.matcher.FindAvailableVehicle(ctx, carModelID, iv, nil)
	if err != nil {
		return nil, err
	}

	res := domain.Reservation{
		ID:         uuid.New(),
		UserID:     userID,
		VehicleID:  vehicle.ID,
		CarModelID: carModelID,
		StartDate:  iv.Start,
		EndDate:    iv.End,
		Status:     domain.StatusWaitingForPayment,
		TotalPrice: model.PricePerDay * float64(iv.Days()),
		Currency:   "EUR",
		CreatedAt:  now,
	}

	if err := s.reservations.CreateBooked(ctx, res); err != nil {
		return nil, err
	}

	s.logger.Info("reservation created",
		"reservation_id", res.ID,
		"user_id", userID,
		"vehicle_id", vehicle.ID,
		"total_price", res.TotalPrice,
	)
	return &res, nil
}

func (s *reservationService) Update(ctx context.Context, id uuid.UUID, newCarModelID *uuid.UUID, iv domain.DateInterval) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkEligibility(ctx, res.UserID, iv); err != nil {
		return nil, err
	}

	modelID := res.CarModelID
	var vehicle *domain.Vehicle

	switch {
	case newCarModelID != nil && *newCarModelID != res.CarModelID:
		// Switching models always goes through a fresh match.
		modelID = *newCarModelID
		vehicle, err = s.matcher.FindAvailableVehicle(ctx, modelID, iv, &id)
		if err != nil {
			return nil, err
		}
	default:
		// Prefer keeping the vehicle already assigned; fall back to any
		// other vehicle of the same model.
		free, err := s.matcher.IsVehicleFree(ctx, res.VehicleID, iv, &id)
		if err != nil {
			return nil, err
		}
		if free {
			vehicle, err = s.vehicles.GetByID(ctx, res.VehicleID)
			if err != nil {
				return nil, err
			}
		} else {
			vehicle, err = s.matcher.FindAvailableVehicle(ctx, modelID, iv, &id)
			if err != nil {
				return nil, err
			}
		}
	}

	model, err := s.catalog.GetByID(ctx, modelID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res.CarModelID = modelID
	res.VehicleID = vehicle.ID
	res.StartDate = iv.Start
	res.EndDate = iv.End
	res.TotalPrice = model.PricePerDay * float64(iv.Days())
	res.UpdatedAt = &now

	if err := s.reservations.UpdateBooked(ctx, *res); err != nil {
		return nil, err
	}

	s.logger.Info("reservation updated", "reservation_id", id, "vehicle_id", vehicle.ID)
	return res, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := res.ApplyTransition(status, s.now()); err != nil {
		return nil, err
	}

	// Vehicle side effects: the car leaves the pool while the rental runs.
	// The repository applies both writes in one transaction.
	var vehicleStatus *domain.VehicleStatus
	switch status {
	case domain.StatusOngoing:
		rented := domain.VehicleRented
		vehicleStatus = &rented
	case domain.StatusCompleted:
		available := domain.VehicleAvailable
		vehicleStatus = &available
	}

	if err := s.reservations.SaveStatus(ctx, *res, vehicleStatus); err != nil {
		return nil, err
	}

	s.logger.Info("reservation status changed", "reservation_id", id, "status", status)
	return res, nil
}

func (s *reservationService) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !res.Deletable() {
		return domain.ErrInvalidReservationStatus
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("reservation deleted", "reservation_id", id)
	return nil
}

// InitiatePayment forwards the reservation's amount to the payment
// collaborator and hands back its approval URL verbatim.
func (s *reservationService) InitiatePayment(ctx context.Context, id uuid.UUID) (string, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if res.Status != domain.StatusWaitingForPayment {
		return "", domain.ErrInvalidReservationStatus
	}

	url, err := s.payments.InitiatePayment(ctx, domain.PaymentRequest{
		ReservationID: res.ID,
		UserID:        res.UserID,
		Amount:        res.TotalPrice,
		Currency:      res.Currency,
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("payment initiated", "reservation_id", id, "amount", res.TotalPrice)
	return url, nil
}

func (s *reservationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

func (s *reservationService) GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Reservation, error) {
	// The role check mirrors the create path: only customers own bookings.
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleCustomer {
		return nil, domain.ErrUnauthorizedRole
	}
	return s.reservations.ListByUserID(ctx, userID)
}

func (s *reservationService) GetAll(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservations.ListAll(ctx)
}
