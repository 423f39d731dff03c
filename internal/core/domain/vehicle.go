package domain

import (
	"time"

	"github.com/google/uuid"
)

type VehicleStatus string

const (
	VehicleAvailable        VehicleStatus = "AVAILABLE"
	VehicleRented           VehicleStatus = "RENTED"
	VehicleUnderMaintenance VehicleStatus = "UNDER_MAINTENANCE"
)

// Vehicle is a physical car in the fleet. Plate and VIN are unique across
// the fleet; uniqueness is enforced by the database.
type Vehicle struct {
	ID           uuid.UUID
	CarModelID   uuid.UUID
	LicensePlate string
	VIN          string
	Kilometers   int
	Status       VehicleStatus
	CreatedAt    time.Time
}

// CarModel is the catalog entry a vehicle belongs to. Read-only as far as
// the reservation core is concerned.
type CarModel struct {
	ID           uuid.UUID `json:"id"`
	Brand        string    `json:"brand"`
	ModelName    string    `json:"model_name"`
	Year         int       `json:"year"`
	Seats        int       `json:"seats"`
	Transmission string    `json:"transmission"`
	FuelType     string    `json:"fuel_type"`
	PricePerDay  float64   `json:"price_per_day"`
}

type MaintenanceStatus string

const (
	MaintenanceUpcoming   MaintenanceStatus = "UPCOMING"
	MaintenanceInProgress MaintenanceStatus = "IN_PROGRESS"
	MaintenanceDone       MaintenanceStatus = "DONE"
)

// MaintenanceRecord is consulted, never mutated, by the availability matcher.
type MaintenanceRecord struct {
	ID          uuid.UUID
	VehicleID   uuid.UUID
	Status      MaintenanceStatus
	Date        time.Time
	Description string
}
