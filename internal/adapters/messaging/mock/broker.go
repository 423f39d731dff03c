package mock

import (
	"context"
	"fmt"

	"car-rental-platform/internal/core/domain"
)

// Broker is a stand-in for the Kafka publisher when running the payment
// service without a broker, e.g. in local smoke tests.
type Broker struct{}

func NewBroker() *Broker {
	return &Broker{}
}

func (b *Broker) Close() error {
	return nil
}

func (b *Broker) PublishPaymentCompleted(_ context.Context, ev domain.PaymentCompletedEvent) error {
	fmt.Printf("📨 [MOCK] Payment completed: %s, reservation %s, %.2f %s\n",
		ev.PaymentID, ev.ReservationID, ev.Amount, ev.Currency)
	return nil
}
