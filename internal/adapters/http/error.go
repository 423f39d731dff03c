package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"car-rental-platform/internal/core/domain"
)

func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// statusForError maps the flat domain error set onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrReservationNotFound),
		errors.Is(err, domain.ErrVehicleNotFound),
		errors.Is(err, domain.ErrCarModelNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrTransferNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrTransferAlreadyExists),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateVehicle):
		return http.StatusConflict

	case errors.Is(err, domain.ErrUnauthorizedRole):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrNoAvailableVehicle),
		errors.Is(err, domain.ErrInvalidReservationStatus),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrIntervalInPast),
		errors.Is(err, domain.ErrInvalidTransferType),
		errors.Is(err, domain.ErrTransferDateMismatch),
		errors.Is(err, domain.ErrInvalidApprovalToken),
		errors.Is(err, domain.ErrMissingProfile),
		errors.Is(err, domain.ErrLicenseExpired):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrStorageUnavailable),
		errors.Is(err, domain.ErrBrokerUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError renders the error with the mapped status; unexpected
// errors are masked behind a generic message.
func writeDomainError(w http.ResponseWriter, err error) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		writeJSONError(w, "internal server error", code)
		return
	}
	writeJSONError(w, err.Error(), code)
}
