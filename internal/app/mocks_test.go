package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"car-rental-platform/internal/core/domain"
)

// Mock implementations of the outgoing ports, shared by the service tests.

type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) CreateBooked(ctx context.Context, res domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockReservationRepo) UpdateBooked(ctx context.Context, res domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}

func (m *MockReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *MockReservationRepo) SaveStatus(ctx context.Context, res domain.Reservation, vehicleStatus *domain.VehicleStatus) error {
	args := m.Called(ctx, res, vehicleStatus)
	return args.Error(0)
}

func (m *MockReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationRepo) HasOverlapping(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, vehicleID, iv, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepo) ConfirmPayment(ctx context.Context, reservationID uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, reservationID, now)
	return args.Bool(0), args.Error(1)
}

type MockVehicleRepo struct {
	mock.Mock
}

func (m *MockVehicleRepo) Create(ctx context.Context, v domain.Vehicle) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepo) ListAvailableByModel(ctx context.Context, carModelID uuid.UUID) ([]domain.Vehicle, error) {
	args := m.Called(ctx, carModelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepo) SaveStatus(ctx context.Context, id uuid.UUID, status domain.VehicleStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockCarModelRepo struct {
	mock.Mock
}

func (m *MockCarModelRepo) Create(ctx context.Context, cm domain.CarModel) error {
	args := m.Called(ctx, cm)
	return args.Error(0)
}

func (m *MockCarModelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CarModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarModel), args.Error(1)
}

func (m *MockCarModelRepo) ListAll(ctx context.Context) ([]domain.CarModel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CarModel), args.Error(1)
}

type MockMaintenanceRepo struct {
	mock.Mock
}

func (m *MockMaintenanceRepo) HasUpcomingInInterval(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval) (bool, error) {
	args := m.Called(ctx, vehicleID, iv)
	return args.Bool(0), args.Error(1)
}

type MockTransferRepo struct {
	mock.Mock
}

func (m *MockTransferRepo) Get(ctx context.Context, reservationID uuid.UUID, kind domain.TransferType) (*domain.Transfer, error) {
	args := m.Called(ctx, reservationID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transfer), args.Error(1)
}

func (m *MockTransferRepo) Create(ctx context.Context, t domain.Transfer) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransferRepo) Update(ctx context.Context, t domain.Transfer) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTransferRepo) Delete(ctx context.Context, reservationID uuid.UUID, kind domain.TransferType, now time.Time) error {
	args := m.Called(ctx, reservationID, kind, now)
	return args.Error(0)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) InitiatePayment(ctx context.Context, req domain.PaymentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, p domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepo) MarkCompleted(ctx context.Context, id uuid.UUID, now time.Time) (*domain.Payment, error) {
	args := m.Called(ctx, id, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPaymentCompleted(ctx context.Context, ev domain.PaymentCompletedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type MockMatcher struct {
	mock.Mock
}

func (m *MockMatcher) FindAvailableVehicle(ctx context.Context, carModelID uuid.UUID, iv domain.DateInterval, excludeReservationID *uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, carModelID, iv, excludeReservationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockMatcher) IsVehicleFree(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval, excludeReservationID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, vehicleID, iv, excludeReservationID)
	return args.Bool(0), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) ListAll(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, u domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepo) SaveProfile(ctx context.Context, id uuid.UUID, p domain.CustomerProfile) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}
