package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is our own type for statuses to avoid "magic strings".
type ReservationStatus string

const (
	StatusWaitingForPayment ReservationStatus = "WAITING_FOR_PAYMENT"
	StatusConfirmed         ReservationStatus = "CONFIRMED"
	StatusOngoing           ReservationStatus = "ONGOING"
	StatusCompleted         ReservationStatus = "COMPLETED"
	StatusCancelled         ReservationStatus = "CANCELLED"
)

// allowedTransitions is the reservation state machine as a directed graph.
// CONFIRMED is only ever entered by the payment confirmation worker;
// CANCELLED only by a user-initiated cancel while payment is pending.
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	StatusWaitingForPayment: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:         {StatusOngoing},
	StatusOngoing:           {StatusCompleted},
	StatusCompleted:         {},
	StatusCancelled:         {},
}

// CanTransition reports whether from -> to is a legal status change.
func CanTransition(from, to ReservationStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Reservation is the central entity of the rental domain. It holds only
// identifier-based references; the vehicle and car model are not owned.
type Reservation struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	VehicleID   uuid.UUID
	CarModelID  uuid.UUID
	StartDate   time.Time
	EndDate     time.Time
	Status      ReservationStatus
	TotalPrice  float64
	Currency    string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	CancelledAt *time.Time
}

// ApplyTransition moves the reservation to a new status and maintains the
// bookkeeping timestamps. Callers handle vehicle side effects.
func (r *Reservation) ApplyTransition(to ReservationStatus, now time.Time) error {
	if !CanTransition(r.Status, to) {
		return ErrInvalidReservationStatus
	}
	r.Status = to
	t := now
	r.UpdatedAt = &t
	if to == StatusCancelled && r.CancelledAt == nil {
		r.CancelledAt = &t
	}
	return nil
}

// Deletable reports whether the reservation has reached a terminal state and
// may be removed.
func (r *Reservation) Deletable() bool {
	return r.Status == StatusCompleted || r.Status == StatusCancelled
}
