package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/core/ports"
)

// PaymentHandler exposes payment initiation and the approval callback the
// customer follows from the approval URL.
type PaymentHandler struct {
	service ports.PaymentService
	logger  *slog.Logger
}

func NewPaymentHandler(service ports.PaymentService, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger,
	}
}

func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/payments", h.handleInitiate)
	r.Get("/payments/approve", h.handleApprove)
	r.Get("/payments/{id}", h.handleGetByID)
}

type paymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	ReservationID uuid.UUID  `json:"reservation_id"`
	UserID        uuid.UUID  `json:"user_id"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type initiateResponse struct {
	Payment     paymentResponse `json:"payment"`
	ApprovalURL string          `json:"approval_url"`
}

func toPaymentResponse(p *domain.Payment) paymentResponse {
	return paymentResponse{
		ID:            p.ID,
		ReservationID: p.ReservationID,
		UserID:        p.UserID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		CompletedAt:   p.CompletedAt,
	}
}

func (h *PaymentHandler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	var req domain.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ReservationID == uuid.Nil || req.UserID == uuid.Nil || req.Amount <= 0 {
		writeJSONError(w, "reservation id, user id and a positive amount are required", http.StatusBadRequest)
		return
	}

	payment, approvalURL, err := h.service.Initiate(r.Context(), req)
	if err != nil {
		h.logger.Error("failed to initiate payment", "reservation_id", req.ReservationID, "error", err)
		writeDomainError(w, err)
		return
	}

	resp := initiateResponse{
		Payment:     toPaymentResponse(payment),
		ApprovalURL: approvalURL,
	}
	if err := writeJSON(w, http.StatusCreated, resp); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *PaymentHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		writeJSONError(w, "missing approval token", http.StatusBadRequest)
		return
	}

	payment, err := h.service.Approve(r.Context(), token)
	if err != nil {
		h.logger.Warn("failed to approve payment", "error", err)
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, toPaymentResponse(payment)); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *PaymentHandler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid payment id", http.StatusBadRequest)
		return
	}

	payment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, toPaymentResponse(payment)); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}
