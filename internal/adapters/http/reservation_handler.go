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
	"car-rental-platform/internal/observability"
)

const dateLayout = "2006-01-02"

// ReservationHandler exposes the reservation lifecycle over HTTP.
type ReservationHandler struct {
	service ports.ReservationService
	logger  *slog.Logger
}

func NewReservationHandler(service ports.ReservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *ReservationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/reservations/users/{userID}/cars/{carModelID}", h.handleCreate)
	r.Put("/reservations/{id}", h.handleUpdate)
	r.Put("/reservations/{id}/status/{status}", h.handleUpdateStatus)
	r.Get("/reservations/{id}", h.handleGetByID)
	r.Get("/reservations", h.handleGetAll)
	r.Get("/reservations/users/{userID}", h.handleGetByUser)
	r.Delete("/reservations/{id}", h.handleDelete)
	r.Post("/reservations/{id}/pay", h.handleInitiatePayment)
}

type reservationRequest struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	CarModelID string `json:"car_model_id,omitempty"`
}

type reservationResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	VehicleID   uuid.UUID  `json:"vehicle_id"`
	CarModelID  uuid.UUID  `json:"car_model_id"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	Status      string     `json:"status"`
	TotalPrice  float64    `json:"total_price"`
	Currency    string     `json:"currency"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func toReservationResponse(res *domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:          res.ID,
		UserID:      res.UserID,
		VehicleID:   res.VehicleID,
		CarModelID:  res.CarModelID,
		StartDate:   res.StartDate.Format(dateLayout),
		EndDate:     res.EndDate.Format(dateLayout),
		Status:      string(res.Status),
		TotalPrice:  res.TotalPrice,
		Currency:    res.Currency,
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
		CancelledAt: res.CancelledAt,
	}
}

func parseInterval(req reservationRequest) (domain.DateInterval, error) {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return domain.DateInterval{}, domain.ErrInvalidInterval
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return domain.DateInterval{}, domain.ErrInvalidInterval
	}
	return domain.NewDateInterval(start, end)
}

func (h *ReservationHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}
	carModelID, err := uuid.Parse(chi.URLParam(r, "carModelID"))
	if err != nil {
		writeJSONError(w, "invalid car model id", http.StatusBadRequest)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	iv, err := parseInterval(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	res, err := h.service.Create(r.Context(), userID, carModelID, iv)
	if err != nil {
		h.logError(r, "failed to create reservation", err)
		writeDomainError(w, err)
		return
	}

	observability.CountBooking(carModelID.String())
	if err := writeJSON(w, http.StatusCreated, toReservationResponse(res)); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *ReservationHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid reservation id", http.StatusBadRequest)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	iv, err := parseInterval(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var newModelID *uuid.UUID
	if req.CarModelID != "" {
		parsed, err := uuid.Parse(req.CarModelID)
		if err != nil {
			writeJSONError(w, "invalid car model id", http.StatusBadRequest)
			return
		}
		newModelID = &parsed
	}

	res, err := h.service.Update(r.Context(), id, newModelID, iv)
	if err != nil {
		h.logError(r, "failed to update reservation", err)
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, toReservationResponse(res)); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *ReservationHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid reservation id", http.StatusBadRequest)
		return
	}
	status := domain.ReservationStatus(chi.URLParam(r, "status"))

	res, err := h.service.UpdateStatus(r.Context(), id, status)
	if err != nil {
		h.logError(r, "failed to update reservation status", err)
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, toReservationResponse(res)); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *ReservationHandler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid reservation id", http.StatusBadRequest)
		return
	}

	res, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, toReservationResponse(res)); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *ReservationHandler) handleGetAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]reservationResponse, 0, len(list))
	for i := range list {
		out = append(out, toReservationResponse(&list[i]))
	}
	if err := writeJSON(w, http.StatusOK, out); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *ReservationHandler) handleGetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeJSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	list, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]reservationResponse, 0, len(list))
	for i := range list {
		out = append(out, toReservationResponse(&list[i]))
	}
	if err := writeJSON(w, http.StatusOK, out); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *ReservationHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid reservation id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.logError(r, "failed to delete reservation", err)
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ReservationHandler) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid reservation id", http.StatusBadRequest)
		return
	}

	url, err := h.service.InitiatePayment(r.Context(), id)
	if err != nil {
		h.logError(r, "failed to initiate payment", err)
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, map[string]string{"approval_url": url}); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *ReservationHandler) logError(r *http.Request, msg string, err error) {
	if statusForError(err) >= http.StatusInternalServerError {
		h.logger.Error(msg, "path", r.URL.Path, "error", err)
	} else {
		h.logger.Warn(msg, "path", r.URL.Path, "error", err)
	}
}
