package app

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"car-rental-platform/internal/core/domain"
)

type transferFixture struct {
	transfers    *MockTransferRepo
	reservations *MockReservationRepo
	users        *MockUserDirectory
	svc          *transferService
}

func newTransferFixture() *transferFixture {
	f := &transferFixture{
		transfers:    new(MockTransferRepo),
		reservations: new(MockReservationRepo),
		users:        new(MockUserDirectory),
	}
	logger := slog.New(slog.DiscardHandler)
	f.svc = NewTransferService(f.transfers, f.reservations, f.users, logger).(*transferService)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func confirmedReservation(start, end string) *domain.Reservation {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return &domain.Reservation{
		ID:        uuid.New(),
		StartDate: s.UTC(),
		EndDate:   e.UTC(),
		Status:    domain.StatusConfirmed,
	}
}

func TestTransferService_AssignPickup(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()

	res := confirmedReservation("2027-09-10", "2027-09-15")
	pickup := domain.Transfer{
		Date:     time.Date(2027, 9, 10, 9, 30, 0, 0, time.UTC),
		Location: "Airport Terminal 2",
	}

	f.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	f.transfers.On("Get", ctx, res.ID, domain.TransferPickup).Return(nil, domain.ErrTransferNotFound)
	f.transfers.On("Create", ctx, mock.MatchedBy(func(tr domain.Transfer) bool {
		return tr.ReservationID == res.ID && tr.CreatedAt.Equal(fixedNow)
	})).Return(nil)

	got, err := f.svc.Assign(ctx, domain.TransferPickup, res.ID, pickup)

	assert.NoError(t, err)
	assert.Equal(t, domain.TransferPickup, got.Type)
	assert.Equal(t, res.ID, got.ReservationID)
	f.transfers.AssertExpectations(t)
	f.reservations.AssertExpectations(t)
}

func TestTransferService_AssignPickup_DateMismatch(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()

	res := confirmedReservation("2027-09-10", "2027-09-15")
	pickup := domain.Transfer{Date: time.Date(2027, 9, 11, 9, 0, 0, 0, time.UTC)}

	f.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	f.transfers.On("Get", ctx, res.ID, domain.TransferPickup).Return(nil, domain.ErrTransferNotFound)

	_, err := f.svc.Assign(ctx, domain.TransferPickup, res.ID, pickup)

	assert.ErrorIs(t, err, domain.ErrTransferDateMismatch)
	f.transfers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTransferService_AssignSecondPickupFails(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()

	res := confirmedReservation("2027-09-10", "2027-09-15")
	existing := &domain.Transfer{ReservationID: res.ID, Type: domain.TransferPickup}

	f.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	f.transfers.On("Get", ctx, res.ID, domain.TransferPickup).Return(existing, nil)

	_, err := f.svc.Assign(ctx, domain.TransferPickup, res.ID, domain.Transfer{
		Date: time.Date(2027, 9, 10, 9, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, domain.ErrTransferAlreadyExists)
}

func TestTransferService_AssignPickup_WrongStatus(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()

	res := confirmedReservation("2027-09-10", "2027-09-15")
	res.Status = domain.StatusWaitingForPayment

	f.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	f.transfers.On("Get", ctx, res.ID, domain.TransferPickup).Return(nil, domain.ErrTransferNotFound)

	_, err := f.svc.Assign(ctx, domain.TransferPickup, res.ID, domain.Transfer{
		Date: time.Date(2027, 9, 10, 9, 0, 0, 0, time.UTC),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidReservationStatus)
}

func TestTransferService_AssignDropoff_OngoingAllowed(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()

	res := confirmedReservation("2027-09-10", "2027-09-15")
	res.Status = domain.StatusOngoing
	dropoff := domain.Transfer{Date: time.Date(2027, 9, 15, 18, 0, 0, 0, time.UTC)}

	f.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	f.transfers.On("Get", ctx, res.ID, domain.TransferDropoff).Return(nil, domain.ErrTransferNotFound)
	f.transfers.On("Create", ctx, mock.AnythingOfType("domain.Transfer")).Return(nil)

	got, err := f.svc.Assign(ctx, domain.TransferDropoff, res.ID, dropoff)

	assert.NoError(t, err)
	assert.Equal(t, domain.TransferDropoff, got.Type)
}

func TestTransferService_StaffCheck(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()

	res := confirmedReservation("2027-09-10", "2027-09-15")
	notStaff := &domain.User{ID: uuid.New(), Role: domain.RoleCustomer}
	staffID := notStaff.ID
	pickup := domain.Transfer{
		Date:    time.Date(2027, 9, 10, 9, 0, 0, 0, time.UTC),
		StaffID: &staffID,
	}

	f.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	f.transfers.On("Get", ctx, res.ID, domain.TransferPickup).Return(nil, domain.ErrTransferNotFound)
	f.users.On("GetUserByID", ctx, staffID).Return(notStaff, nil)

	_, err := f.svc.Assign(ctx, domain.TransferPickup, res.ID, pickup)

	assert.ErrorIs(t, err, domain.ErrUnauthorizedRole)
}

func TestTransferService_UpdateCreatesWhenAbsent(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()

	res := confirmedReservation("2027-09-10", "2027-09-15")
	dropoff := domain.Transfer{Date: time.Date(2027, 9, 15, 17, 0, 0, 0, time.UTC)}

	f.reservations.On("GetByID", ctx, res.ID).Return(res, nil)
	f.transfers.On("Get", ctx, res.ID, domain.TransferDropoff).Return(nil, domain.ErrTransferNotFound)
	f.transfers.On("Create", ctx, mock.MatchedBy(func(tr domain.Transfer) bool {
		return tr.CreatedAt.Equal(fixedNow) && tr.UpdatedAt == nil
	})).Return(nil)

	_, err := f.svc.Update(ctx, domain.TransferDropoff, res.ID, dropoff)

	assert.NoError(t, err)
	f.transfers.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTransferService_Remove(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()

	resID := uuid.New()
	existing := &domain.Transfer{ReservationID: resID, Type: domain.TransferPickup}

	f.transfers.On("Get", ctx, resID, domain.TransferPickup).Return(existing, nil)
	f.transfers.On("Delete", ctx, resID, domain.TransferPickup, fixedNow).Return(nil)

	err := f.svc.Remove(ctx, domain.TransferPickup, resID)

	assert.NoError(t, err)
	f.transfers.AssertExpectations(t)
}

func TestTransferService_RemoveMissing(t *testing.T) {
	f := newTransferFixture()
	ctx := context.Background()

	resID := uuid.New()
	f.transfers.On("Get", ctx, resID, domain.TransferPickup).Return(nil, domain.ErrTransferNotFound)

	err := f.svc.Remove(ctx, domain.TransferPickup, resID)

	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
	f.transfers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
