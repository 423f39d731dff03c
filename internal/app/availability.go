package app

import (
	"context"

	"github.com/google/uuid"

	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/core/ports"
)

// matcher is the implementation of the AvailabilityMatcher port.
type matcher struct {
	vehicles     ports.VehicleRepository
	maintenance  ports.MaintenanceRepository
	reservations ports.ReservationRepository
}

// NewAvailabilityMatcher is the constructor of the matcher. It accepts
// dependencies through interfaces (Dependency Injection).
func NewAvailabilityMatcher(
	vehicles ports.VehicleRepository,
	maintenance ports.MaintenanceRepository,
	reservations ports.ReservationRepository,
) ports.AvailabilityMatcher {
	return &matcher{
		vehicles:     vehicles,
		maintenance:  maintenance,
		reservations: reservations,
	}
}

// FindAvailableVehicle scans AVAILABLE vehicles of the model in creation
// order and returns the first one with no UPCOMING maintenance inside the
// interval and no overlapping non-CANCELLED reservation. First-created wins,
// so repeated calls with the same fleet state pick the same vehicle.
func (m *matcher) FindAvailableVehicle(ctx context.Context, carModelID uuid.UUID, iv domain.DateInterval, excludeReservationID *uuid.UUID) (*domain.Vehicle, error) {
	candidates, err := m.vehicles.ListAvailableByModel(ctx, carModelID)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		free, err := m.isFree(ctx, candidates[i].ID, iv, excludeReservationID)
		if err != nil {
			return nil, err
		}
		if free {
			return &candidates[i], nil
		}
	}

	return nil, domain.ErrNoAvailableVehicle
}

// IsVehicleFree checks a single vehicle, used when a reservation is edited in
// place and should keep its current vehicle if possible.
func (m *matcher) IsVehicleFree(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval, excludeReservationID *uuid.UUID) (bool, error) {
	vehicle, err := m.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	if vehicle.Status != domain.VehicleAvailable && vehicle.Status != domain.VehicleRented {
		// UNDER_MAINTENANCE vehicles never qualify. RENTED is tolerated here
		// because the vehicle may be rented by the very reservation being
		// edited; the overlap check below decides.
		return false, nil
	}
	return m.isFree(ctx, vehicleID, iv, excludeReservationID)
}

func (m *matcher) isFree(ctx context.Context, vehicleID uuid.UUID, iv domain.DateInterval, excludeReservationID *uuid.UUID) (bool, error) {
	inMaintenance, err := m.maintenance.HasUpcomingInInterval(ctx, vehicleID, iv)
	if err != nil {
		return false, err
	}
	if inMaintenance {
		return false, nil
	}

	booked, err := m.reservations.HasOverlapping(ctx, vehicleID, iv, excludeReservationID)
	if err != nil {
		return false, err
	}
	return !booked, nil
}
