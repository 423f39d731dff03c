package app

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"car-rental-platform/internal/core/domain"
)

func testInterval(t *testing.T, start, end string) domain.DateInterval {
	t.Helper()
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		t.Fatal(err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		t.Fatal(err)
	}
	iv, err := domain.NewDateInterval(s, e)
	if err != nil {
		t.Fatal(err)
	}
	return iv
}

func TestMatcher_PicksFirstFreeCandidate(t *testing.T) {
	vehicles := new(MockVehicleRepo)
	maintenance := new(MockMaintenanceRepo)
	reservations := new(MockReservationRepo)
	m := NewAvailabilityMatcher(vehicles, maintenance, reservations)

	ctx := context.Background()
	modelID := uuid.New()
	iv := testInterval(t, "2027-09-10", "2027-09-15")

	first := domain.Vehicle{ID: uuid.New(), CarModelID: modelID, Status: domain.VehicleAvailable}
	second := domain.Vehicle{ID: uuid.New(), CarModelID: modelID, Status: domain.VehicleAvailable}

	vehicles.On("ListAvailableByModel", ctx, modelID).Return([]domain.Vehicle{first, second}, nil)
	// The first candidate is blocked by an overlapping booking, the second is free.
	maintenance.On("HasUpcomingInInterval", ctx, first.ID, iv).Return(false, nil)
	reservations.On("HasOverlapping", ctx, first.ID, iv, (*uuid.UUID)(nil)).Return(true, nil)
	maintenance.On("HasUpcomingInInterval", ctx, second.ID, iv).Return(false, nil)
	reservations.On("HasOverlapping", ctx, second.ID, iv, (*uuid.UUID)(nil)).Return(false, nil)

	got, err := m.FindAvailableVehicle(ctx, modelID, iv, nil)

	assert.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	vehicles.AssertExpectations(t)
	reservations.AssertExpectations(t)
}

func TestMatcher_MaintenanceBlocksVehicle(t *testing.T) {
	vehicles := new(MockVehicleRepo)
	maintenance := new(MockMaintenanceRepo)
	reservations := new(MockReservationRepo)
	m := NewAvailabilityMatcher(vehicles, maintenance, reservations)

	ctx := context.Background()
	modelID := uuid.New()
	iv := testInterval(t, "2027-09-10", "2027-09-15")
	v := domain.Vehicle{ID: uuid.New(), CarModelID: modelID, Status: domain.VehicleAvailable}

	vehicles.On("ListAvailableByModel", ctx, modelID).Return([]domain.Vehicle{v}, nil)
	maintenance.On("HasUpcomingInInterval", ctx, v.ID, iv).Return(true, nil)

	_, err := m.FindAvailableVehicle(ctx, modelID, iv, nil)

	assert.ErrorIs(t, err, domain.ErrNoAvailableVehicle)
	// A vehicle in maintenance must be rejected before the booking check runs.
	reservations.AssertNotCalled(t, "HasOverlapping", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMatcher_EmptyCandidateSet(t *testing.T) {
	vehicles := new(MockVehicleRepo)
	maintenance := new(MockMaintenanceRepo)
	reservations := new(MockReservationRepo)
	m := NewAvailabilityMatcher(vehicles, maintenance, reservations)

	ctx := context.Background()
	modelID := uuid.New()
	iv := testInterval(t, "2027-09-10", "2027-09-15")

	vehicles.On("ListAvailableByModel", ctx, modelID).Return([]domain.Vehicle{}, nil)

	_, err := m.FindAvailableVehicle(ctx, modelID, iv, nil)

	assert.ErrorIs(t, err, domain.ErrNoAvailableVehicle)
}

func TestMatcher_IsVehicleFreeExcludesOwnReservation(t *testing.T) {
	vehicles := new(MockVehicleRepo)
	maintenance := new(MockMaintenanceRepo)
	reservations := new(MockReservationRepo)
	m := NewAvailabilityMatcher(vehicles, maintenance, reservations)

	ctx := context.Background()
	iv := testInterval(t, "2027-09-10", "2027-09-15")
	v := domain.Vehicle{ID: uuid.New(), Status: domain.VehicleAvailable}
	resID := uuid.New()

	vehicles.On("GetByID", ctx, v.ID).Return(&v, nil)
	maintenance.On("HasUpcomingInInterval", ctx, v.ID, iv).Return(false, nil)
	// The repository receives the exclusion id so the reservation's own row
	// does not count as a conflict.
	reservations.On("HasOverlapping", ctx, v.ID, iv, &resID).Return(false, nil)

	free, err := m.IsVehicleFree(ctx, v.ID, iv, &resID)

	assert.NoError(t, err)
	assert.True(t, free)
	reservations.AssertExpectations(t)
}

func TestMatcher_VehicleUnderMaintenanceNeverFree(t *testing.T) {
	vehicles := new(MockVehicleRepo)
	maintenance := new(MockMaintenanceRepo)
	reservations := new(MockReservationRepo)
	m := NewAvailabilityMatcher(vehicles, maintenance, reservations)

	ctx := context.Background()
	iv := testInterval(t, "2027-09-10", "2027-09-15")
	v := domain.Vehicle{ID: uuid.New(), Status: domain.VehicleUnderMaintenance}

	vehicles.On("GetByID", ctx, v.ID).Return(&v, nil)

	free, err := m.IsVehicleFree(ctx, v.ID, iv, nil)

	assert.NoError(t, err)
	assert.False(t, free)
}
