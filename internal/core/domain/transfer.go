package domain

import (
	"time"

	"github.com/google/uuid"
)

type TransferType string

const (
	TransferPickup  TransferType = "PICKUP"
	TransferDropoff TransferType = "DROPOFF"
)

// ParseTransferType maps a path segment onto a transfer kind.
func ParseTransferType(s string) (TransferType, error) {
	switch TransferType(s) {
	case TransferPickup:
		return TransferPickup, nil
	case TransferDropoff:
		return TransferDropoff, nil
	default:
		return "", ErrInvalidTransferType
	}
}

// Transfer is a pickup or dropoff event attached to a reservation. At most
// one of each kind per reservation; it shares the reservation's identifier.
type Transfer struct {
	ReservationID uuid.UUID
	Type          TransferType
	Date          time.Time
	Location      string
	StaffID       *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     *time.Time
}
