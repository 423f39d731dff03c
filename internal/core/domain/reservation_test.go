package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to ReservationStatus
		want     bool
	}{
		{StatusWaitingForPayment, StatusConfirmed, true},
		{StatusWaitingForPayment, StatusCancelled, true},
		{StatusConfirmed, StatusOngoing, true},
		{StatusOngoing, StatusCompleted, true},
		{StatusWaitingForPayment, StatusOngoing, false},
		{StatusConfirmed, StatusCancelled, false},
		{StatusOngoing, StatusCancelled, false},
		{StatusCompleted, StatusOngoing, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestApplyTransition_CancelRecordsTimestamp(t *testing.T) {
	now := time.Date(2027, 3, 1, 10, 0, 0, 0, time.UTC)
	r := &Reservation{Status: StatusWaitingForPayment}

	err := r.ApplyTransition(StatusCancelled, now)

	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, r.Status)
	assert.NotNil(t, r.CancelledAt)
	assert.Equal(t, now, *r.CancelledAt)
}

func TestApplyTransition_IllegalShortcut(t *testing.T) {
	r := &Reservation{Status: StatusWaitingForPayment}

	err := r.ApplyTransition(StatusCompleted, time.Now())

	assert.ErrorIs(t, err, ErrInvalidReservationStatus)
	assert.Equal(t, StatusWaitingForPayment, r.Status)
}

func TestDeletable(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusCompleted}).Deletable())
	assert.True(t, (&Reservation{Status: StatusCancelled}).Deletable())
	assert.False(t, (&Reservation{Status: StatusWaitingForPayment}).Deletable())
	assert.False(t, (&Reservation{Status: StatusConfirmed}).Deletable())
	assert.False(t, (&Reservation{Status: StatusOngoing}).Deletable())
}
