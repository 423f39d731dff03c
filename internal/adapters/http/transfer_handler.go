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

// TransferHandler manages pickup and dropoff assignments of a reservation.
type TransferHandler struct {
	service ports.TransferService
	logger  *slog.Logger
}

func NewTransferHandler(service ports.TransferService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{
		service: service,
		logger:  logger,
	}
}

func (h *TransferHandler) RegisterRoutes(r chi.Router) {
	r.Post("/transfers/{type}/{reservationID}", h.handleAssign)
	r.Put("/transfers/{type}/{reservationID}", h.handleUpdate)
	r.Get("/transfers/{type}/{reservationID}", h.handleGet)
	r.Delete("/transfers/{type}/{reservationID}", h.handleRemove)
}

type transferRequest struct {
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	StaffID  *string   `json:"staff_id,omitempty"`
}

type transferResponse struct {
	ReservationID uuid.UUID  `json:"reservation_id"`
	Type          string     `json:"type"`
	Date          time.Time  `json:"date"`
	Location      string     `json:"location"`
	StaffID       *uuid.UUID `json:"staff_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

func toTransferResponse(t *domain.Transfer) transferResponse {
	return transferResponse{
		ReservationID: t.ReservationID,
		Type:          string(t.Type),
		Date:          t.Date,
		Location:      t.Location,
		StaffID:       t.StaffID,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func transferParams(r *http.Request) (domain.TransferType, uuid.UUID, error) {
	kind, err := domain.ParseTransferType(chi.URLParam(r, "type"))
	if err != nil {
		return "", uuid.Nil, err
	}
	reservationID, err := uuid.Parse(chi.URLParam(r, "reservationID"))
	if err != nil {
		return "", uuid.Nil, domain.ErrReservationNotFound
	}
	return kind, reservationID, nil
}

func decodeTransfer(r *http.Request) (domain.Transfer, error) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return domain.Transfer{}, err
	}

	t := domain.Transfer{
		Date:     req.Date,
		Location: req.Location,
	}
	if req.StaffID != nil {
		staffID, err := uuid.Parse(*req.StaffID)
		if err != nil {
			return domain.Transfer{}, err
		}
		t.StaffID = &staffID
	}
	return t, nil
}

func (h *TransferHandler) handleAssign(w http.ResponseWriter, r *http.Request) {
	kind, reservationID, err := transferParams(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	t, err := decodeTransfer(r)
	if err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Assign(r.Context(), kind, reservationID, t)
	if err != nil {
		h.logger.Warn("failed to assign transfer", "kind", kind, "reservation_id", reservationID, "error", err)
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, toTransferResponse(created)); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *TransferHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, reservationID, err := transferParams(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	t, err := decodeTransfer(r)
	if err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.Update(r.Context(), kind, reservationID, t)
	if err != nil {
		h.logger.Warn("failed to update transfer", "kind", kind, "reservation_id", reservationID, "error", err)
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, toTransferResponse(updated)); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *TransferHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	kind, reservationID, err := transferParams(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	t, err := h.service.Get(r.Context(), kind, reservationID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, toTransferResponse(t)); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *TransferHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	kind, reservationID, err := transferParams(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.service.Remove(r.Context(), kind, reservationID); err != nil {
		h.logger.Warn("failed to remove transfer", "kind", kind, "reservation_id", reservationID, "error", err)
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
