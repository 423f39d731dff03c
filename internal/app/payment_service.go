package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/core/ports"
)

// approvalTokenTTL bounds how long a customer has to follow the approval
// link before the payment must be re-initiated.
const approvalTokenTTL = 30 * time.Minute

// paymentService issues approval links and completes payments. Completion
// publishes a payments.completed event keyed by reservation id; the
// confirmation worker picks it up from there.
type paymentService struct {
	payments        ports.PaymentRepository
	publisher       ports.EventPublisher
	signingKey      []byte
	approvalBaseURL string
	logger          *slog.Logger
	now             func() time.Time
}

func NewPaymentService(
	payments ports.PaymentRepository,
	publisher ports.EventPublisher,
	signingKey []byte,
	approvalBaseURL string,
	logger *slog.Logger,
) ports.PaymentService {
	return &paymentService{
		payments:        payments,
		publisher:       publisher,
		signingKey:      signingKey,
		approvalBaseURL: approvalBaseURL,
		logger:          logger,
		now:             time.Now,
	}
}

type approvalClaims struct {
	PaymentID     string `json:"payment_id"`
	ReservationID string `json:"reservation_id"`
	jwt.RegisteredClaims
}

func (s *paymentService) Initiate(ctx context.Context, req domain.PaymentRequest) (*domain.Payment, string, error) {
	now := s.now()
	payment := domain.Payment{
		ID:            uuid.New(),
		ReservationID: req.ReservationID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Status:        domain.PaymentPending,
		CreatedAt:     now,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, approvalClaims{
		PaymentID:     payment.ID.String(),
		ReservationID: payment.ReservationID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(approvalTokenTTL)),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign approval token: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/payments/approve?token=%s", s.approvalBaseURL, signed)
	s.logger.Info("payment initiated",
		"payment_id", payment.ID,
		"reservation_id", payment.ReservationID,
		"amount", payment.Amount,
	)
	return &payment, url, nil
}

func (s *paymentService) Approve(ctx context.Context, tokenStr string) (*domain.Payment, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &approvalClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidApprovalToken, err)
	}
	claims, ok := parsed.Claims.(*approvalClaims)
	if !ok {
		return nil, domain.ErrInvalidApprovalToken
	}
	paymentID, err := uuid.Parse(claims.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad payment id: %w", domain.ErrInvalidApprovalToken, err)
	}

	// A second click on the same link must not complete the payment twice,
	// but the event is republished: the first approval may have completed
	// the payment and then failed to publish, and without the event the
	// reservation would never confirm. The worker's conditional update makes
	// a duplicate event harmless.
	existing, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.PaymentCompleted {
		if err := s.publisher.PublishPaymentCompleted(ctx, completedEvent(existing)); err != nil {
			return nil, domain.ErrBrokerUnavailable
		}
		s.logger.Info("payment already completed, event republished", "payment_id", paymentID)
		return existing, nil
	}

	now := s.now()
	payment, err := s.payments.MarkCompleted(ctx, paymentID, now)
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishPaymentCompleted(ctx, completedEvent(payment)); err != nil {
		return nil, domain.ErrBrokerUnavailable
	}

	s.logger.Info("payment completed", "payment_id", payment.ID, "reservation_id", payment.ReservationID)
	return payment, nil
}

func (s *paymentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return s.payments.GetByID(ctx, id)
}

func completedEvent(p *domain.Payment) domain.PaymentCompletedEvent {
	ev := domain.PaymentCompletedEvent{
		PaymentID:     p.ID,
		ReservationID: p.ReservationID,
		Amount:        p.Amount,
		Currency:      p.Currency,
	}
	if p.CompletedAt != nil {
		ev.CompletedAt = *p.CompletedAt
	}
	return ev
}
