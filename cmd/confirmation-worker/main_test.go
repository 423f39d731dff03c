package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"

	"car-rental-platform/internal/core/domain"
)

type fakeConfirmer struct {
	confirmed bool
	err       error
	calls     int
}

func (f *fakeConfirmer) ConfirmPayment(ctx context.Context, reservationID uuid.UUID, now time.Time) (bool, error) {
	f.calls++
	return f.confirmed, f.err
}

func paymentRecord(t *testing.T) *kgo.Record {
	t.Helper()
	ev := domain.PaymentCompletedEvent{
		PaymentID:     uuid.New(),
		ReservationID: uuid.New(),
		Amount:        300,
		Currency:      "EUR",
		CompletedAt:   time.Now().UTC(),
	}
	value, err := json.Marshal(ev)
	assert.NoError(t, err)
	return &kgo.Record{Topic: "payments.completed", Key: []byte(ev.ReservationID.String()), Value: value}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestProcessRecord_ConfirmedCommits(t *testing.T) {
	repo := &fakeConfirmer{confirmed: true}
	dlqCalls := 0
	dlq := func(*kgo.Record, string, string) { dlqCalls++ }

	ok := processRecord(context.Background(), paymentRecord(t), repo, dlq, discardLogger())

	assert.True(t, ok)
	assert.Equal(t, 1, repo.calls)
	assert.Zero(t, dlqCalls)
}

func TestProcessRecord_TransientFailureBlocksCommit(t *testing.T) {
	// A database hiccup must not let the offset advance past the event, or
	// the reservation would be stuck waiting for a payment that already
	// went through.
	repo := &fakeConfirmer{err: errors.New("connection reset")}
	dlqCalls := 0
	dlq := func(*kgo.Record, string, string) { dlqCalls++ }

	ok := processRecord(context.Background(), paymentRecord(t), repo, dlq, discardLogger())

	assert.False(t, ok)
	assert.Zero(t, dlqCalls)
}

func TestProcessRecord_MalformedGoesToDLQ(t *testing.T) {
	repo := &fakeConfirmer{}
	var gotType string
	dlq := func(r *kgo.Record, errorType, errorString string) { gotType = errorType }
	record := &kgo.Record{Topic: "payments.completed", Value: []byte("{not json")}

	ok := processRecord(context.Background(), record, repo, dlq, discardLogger())

	// Poison messages are parked, not retried, and never block the batch.
	assert.True(t, ok)
	assert.Equal(t, "unmarshal_error", gotType)
	assert.Zero(t, repo.calls)
}

func TestProcessRecord_AlreadyHandledCommits(t *testing.T) {
	repo := &fakeConfirmer{confirmed: false}
	dlq := func(*kgo.Record, string, string) {}

	ok := processRecord(context.Background(), paymentRecord(t), repo, dlq, discardLogger())

	assert.True(t, ok)
	assert.Equal(t, 1, repo.calls)
}
