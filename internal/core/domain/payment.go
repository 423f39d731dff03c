package domain

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
)

// PaymentRequest is what the reservation service forwards to the payment
// collaborator.
type PaymentRequest struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	UserID        uuid.UUID `json:"user_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
}

// Payment is the payment service's record of an initiated payment.
type Payment struct {
	ID            uuid.UUID
	ReservationID uuid.UUID
	UserID        uuid.UUID
	Amount        float64
	Currency      string
	Status        PaymentStatus
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// PaymentCompletedEvent is the message published to Kafka once a payment is
// approved, keyed by reservation id.
type PaymentCompletedEvent struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	CompletedAt   time.Time `json:"completed_at"`
}
