package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"car-rental-platform/internal/core/domain"
)

// ReservationRepository is an "outgoing port". It defines WHAT the core needs
// from storage, but not HOW. The implementation may be PostgreSQL, in-memory
// and so on.
type ReservationRepository interface {
	// CreateBooked persists a new reservation. Implementations must
	// re-evaluate the overlap predicate for the assigned vehicle under a
	// serialization guard and return domain.ErrNoAvailableVehicle when a
	// concurrent booking won the race.
	CreateBooked(ctx context.Context, res domain.Reservation) error
	// UpdateBooked rewrites vehicle, dates and price of an existing
	// reservation under the same guard, ignoring the reservation's own row
	// in the overlap check.
	UpdateBooked(ctx context.Context, res domain.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Reservation, error)
	ListAll(ctx context.Context) ([]domain.Reservation, error)
	// SaveStatus persists status and the status-related timestamps. When
	// vehicleStatus is not nil the reservation's vehicle moves to that
	// status in the same transaction, so a crash can never leave the
	// reservation and the fleet disagreeing.
	SaveStatus(ctx context.Context, res domain.Reservation, vehicleStatus *domain.VehicleStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	// HasOverlapping reports whether the vehicle has any non-CANCELLED
	// reservation overlapping the interval, ignoring excludeID when not nil.
	HasOverlapping(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval, excludeID *uuid.UUID) (bool, error)
	// ConfirmPayment transitions the reservation to CONFIRMED only if it is
	// still WAITING_FOR_PAYMENT, and reports whether a row changed. Used by
	// the confirmation worker; must be idempotent.
	ConfirmPayment(ctx context.Context, reservationID uuid.UUID, now time.Time) (bool, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, v domain.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
	// ListAvailableByModel returns AVAILABLE vehicles of the model ordered
	// by creation (oldest first), which makes the matcher deterministic.
	ListAvailableByModel(ctx context.Context, carModelID uuid.UUID) ([]domain.Vehicle, error)
	SaveStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error
}

type CarModelRepository interface {
	Create(ctx context.Context, m domain.CarModel) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CarModel, error)
	ListAll(ctx context.Context) ([]domain.CarModel, error)
}

type MaintenanceRepository interface {
	// HasUpcomingInInterval reports whether the vehicle has an UPCOMING
	// maintenance whose date falls inside the interval, bounds included.
	HasUpcomingInInterval(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval) (bool, error)
}

// TransferRepository writes pickups and dropoffs. Every write also bumps the
// owning reservation's updated-at in the same transaction: Create stamps the
// transfer's CreatedAt, Update its UpdatedAt, Delete the caller-supplied now.
type TransferRepository interface {
	Get(ctx context.Context, reservationID uuid.UUID, kind domain.TransferType) (*domain.Transfer, error)
	Create(ctx context.Context, t domain.Transfer) error
	Update(ctx context.Context, t domain.Transfer) error
	Delete(ctx context.Context, reservationID uuid.UUID, kind domain.TransferType, now time.Time) error
}

type UserRepository interface {
	Create(ctx context.Context, u domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ListAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	SaveProfile(ctx context.Context, id uuid.UUID, p domain.CustomerProfile) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	// MarkCompleted flips the payment to COMPLETED and returns the updated
	// record. Completing an already-completed payment is a no-op.
	MarkCompleted(ctx context.Context, id uuid.UUID, now time.Time) (*domain.Payment, error)
}

// UserDirectory is the user collaborator consumed by the reservation core for
// role and license checks.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// PaymentGateway is the payment collaborator; it returns the approval URL for
// the customer to complete the payment.
type PaymentGateway interface {
	InitiatePayment(ctx context.Context, req domain.PaymentRequest) (string, error)
}

// EventPublisher is the outgoing port for domain events.
type EventPublisher interface {
	PublishPaymentCompleted(ctx context.Context, ev domain.PaymentCompletedEvent) error
}

// RateLimiterRepository backs the per-IP request limiter.
type RateLimiterRepository interface {
	IsAllowed(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// AvailabilityMatcher selects a free vehicle of a model for an interval.
// excludeReservationID, when not nil, ignores that reservation's own booking
// so a reservation can be edited in place.
type AvailabilityMatcher interface {
	FindAvailableVehicle(ctx context.Context, carModelID uuid.UUID, iv domain.DateInterval, excludeReservationID *uuid.UUID) (*domain.Vehicle, error)
	// IsVehicleFree checks whether one specific vehicle stays free for the
	// interval.
	IsVehicleFree(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval, excludeReservationID *uuid.UUID) (bool, error)
}

// ReservationService is the incoming port of the reservation core.
type ReservationService interface {
	Create(ctx context.Context, userID, carModelID uuid.UUID, iv domain.DateInterval) (*domain.Reservation, error)
	Update(ctx context.Context, id uuid.UUID, newCarModelID *uuid.UUID, iv domain.DateInterval) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReservationStatus) (*domain.Reservation, error)
	Delete(ctx context.Context, id uuid.UUID) error
	InitiatePayment(ctx context.Context, id uuid.UUID) (string, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Reservation, error)
	GetAll(ctx context.Context) ([]domain.Reservation, error)
}

// TransferService is the incoming port of the pickup/dropoff manager.
type TransferService interface {
	Assign(ctx context.Context, kind domain.TransferType, reservationID uuid.UUID, t domain.Transfer) (*domain.Transfer, error)
	Update(ctx context.Context, kind domain.TransferType, reservationID uuid.UUID, t domain.Transfer) (*domain.Transfer, error)
	Remove(ctx context.Context, kind domain.TransferType, reservationID uuid.UUID) error
	Get(ctx context.Context, kind domain.TransferType, reservationID uuid.UUID) (*domain.Transfer, error)
}

type UserService interface {
	Register(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, u domain.User) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SaveProfile(ctx context.Context, id uuid.UUID, p domain.CustomerProfile) (*domain.User, error)
}

type PaymentService interface {
	Initiate(ctx context.Context, req domain.PaymentRequest) (*domain.Payment, string, error)
	Approve(ctx context.Context, token string) (*domain.Payment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
}
