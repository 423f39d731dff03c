package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"car-rental-platform/internal/core/domain"
	"car-rental-platform/internal/core/ports"
)

// UserHandler exposes user registration, profile management and lookups.
type UserHandler struct {
	service ports.UserService
	logger  *slog.Logger
}

func NewUserHandler(service ports.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Post("/users", h.handleRegister)
	r.Get("/users", h.handleGetAll)
	r.Get("/users/{id}", h.handleGetByID)
	r.Put("/users/{id}", h.handleUpdate)
	r.Delete("/users/{id}", h.handleDelete)
	r.Put("/users/{id}/profile", h.handleSaveProfile)
}

func (h *UserHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var u domain.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.service.Register(r.Context(), u)
	if err != nil {
		h.writeUserError(w, r, "failed to register user", err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, created); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *UserHandler) handleGetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, users); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *UserHandler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	u, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, u); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *UserHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var u domain.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	u.ID = id

	updated, err := h.service.Update(r.Context(), u)
	if err != nil {
		h.writeUserError(w, r, "failed to update user", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, updated); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

func (h *UserHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var p domain.CustomerProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.service.SaveProfile(r.Context(), id, p)
	if err != nil {
		h.writeUserError(w, r, "failed to save customer profile", err)
		return
	}

	if err := writeJSON(w, http.StatusOK, updated); err != nil {
		h.logger.Error("failed to write json response", "error", err)
	}
}

// writeUserError additionally unwraps validator errors, which are not part of
// the domain error set.
func (h *UserHandler) writeUserError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	h.logger.Warn(msg, "path", r.URL.Path, "error", err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		writeJSONError(w, verrs.Error(), http.StatusBadRequest)
		return
	}
	writeDomainError(w, err)
}
