package app

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"car-rental-platform/internal/core/domain"
)

func newPaymentService(repo *MockPaymentRepo, pub *MockPublisher) *paymentService {
	logger := slog.New(slog.DiscardHandler)
	svc := NewPaymentService(repo, pub, []byte("test-signing-key"), "https://pay.example", logger).(*paymentService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestPaymentService_InitiateAndApprove(t *testing.T) {
	repo := new(MockPaymentRepo)
	pub := new(MockPublisher)
	svc := newPaymentService(repo, pub)
	ctx := context.Background()

	req := domain.PaymentRequest{
		ReservationID: uuid.New(),
		UserID:        uuid.New(),
		Amount:        400,
		Currency:      "EUR",
	}

	repo.On("Create", ctx, mock.AnythingOfType("domain.Payment")).Return(nil)

	payment, url, err := svc.Initiate(ctx, req)

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.True(t, strings.HasPrefix(url, "https://pay.example/api/v1/payments/approve?token="))

	// Follow the approval link: the token round-trips through Approve.
	token := strings.TrimPrefix(url, "https://pay.example/api/v1/payments/approve?token=")
	completed := *payment
	completed.Status = domain.PaymentCompleted
	completedAt := fixedNow
	completed.CompletedAt = &completedAt

	repo.On("GetByID", ctx, payment.ID).Return(payment, nil)
	repo.On("MarkCompleted", ctx, payment.ID, fixedNow).Return(&completed, nil)
	pub.On("PublishPaymentCompleted", ctx, mock.MatchedBy(func(ev domain.PaymentCompletedEvent) bool {
		return ev.ReservationID == req.ReservationID && ev.PaymentID == payment.ID
	})).Return(nil)

	got, err := svc.Approve(ctx, token)

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	pub.AssertExpectations(t)
}

func TestPaymentService_Approve_AlreadyCompleted(t *testing.T) {
	repo := new(MockPaymentRepo)
	pub := new(MockPublisher)
	svc := newPaymentService(repo, pub)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("domain.Payment")).Return(nil)
	payment, url, err := svc.Initiate(ctx, domain.PaymentRequest{
		ReservationID: uuid.New(), UserID: uuid.New(), Amount: 100, Currency: "EUR",
	})
	assert.NoError(t, err)

	token := strings.TrimPrefix(url, "https://pay.example/api/v1/payments/approve?token=")
	completedAt := fixedNow
	done := *payment
	done.Status = domain.PaymentCompleted
	done.CompletedAt = &completedAt

	repo.On("GetByID", ctx, payment.ID).Return(&done, nil)
	pub.On("PublishPaymentCompleted", ctx, mock.MatchedBy(func(ev domain.PaymentCompletedEvent) bool {
		return ev.PaymentID == payment.ID && ev.CompletedAt.Equal(completedAt)
	})).Return(nil)

	got, err := svc.Approve(ctx, token)

	// The duplicate click never completes twice, but it does republish the
	// event in case the first publish was lost.
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	repo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything)
	pub.AssertExpectations(t)
}

func TestPaymentService_Approve_RetryRecoversLostEvent(t *testing.T) {
	repo := new(MockPaymentRepo)
	pub := new(MockPublisher)
	svc := newPaymentService(repo, pub)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("domain.Payment")).Return(nil)
	payment, url, err := svc.Initiate(ctx, domain.PaymentRequest{
		ReservationID: uuid.New(), UserID: uuid.New(), Amount: 250, Currency: "EUR",
	})
	assert.NoError(t, err)

	token := strings.TrimPrefix(url, "https://pay.example/api/v1/payments/approve?token=")
	completedAt := fixedNow
	done := *payment
	done.Status = domain.PaymentCompleted
	done.CompletedAt = &completedAt

	// First approval completes the payment, then the broker drops the event.
	repo.On("GetByID", ctx, payment.ID).Return(payment, nil).Once()
	repo.On("MarkCompleted", ctx, payment.ID, fixedNow).Return(&done, nil).Once()
	pub.On("PublishPaymentCompleted", ctx, mock.Anything).Return(assert.AnError).Once()

	_, err = svc.Approve(ctx, token)
	assert.ErrorIs(t, err, domain.ErrBrokerUnavailable)

	// The customer retries the link: no second completion, but the event is
	// published this time, so the reservation can still confirm.
	repo.On("GetByID", ctx, payment.ID).Return(&done, nil).Once()
	pub.On("PublishPaymentCompleted", ctx, mock.MatchedBy(func(ev domain.PaymentCompletedEvent) bool {
		return ev.PaymentID == payment.ID && ev.ReservationID == payment.ReservationID
	})).Return(nil).Once()

	got, err := svc.Approve(ctx, token)

	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, got.Status)
	repo.AssertNumberOfCalls(t, "MarkCompleted", 1)
	pub.AssertNumberOfCalls(t, "PublishPaymentCompleted", 2)
}

func TestPaymentService_Approve_BadToken(t *testing.T) {
	repo := new(MockPaymentRepo)
	pub := new(MockPublisher)
	svc := newPaymentService(repo, pub)

	_, err := svc.Approve(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, domain.ErrInvalidApprovalToken)
	repo.AssertNotCalled(t, "MarkCompleted", mock.Anything, mock.Anything, mock.Anything)
}
