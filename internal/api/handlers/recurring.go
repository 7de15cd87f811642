package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/securebank/corebank/internal/api/middleware"
	"github.com/securebank/corebank/internal/recurring"
)

// RecurringHandler serves recurring transfer endpoints.
type RecurringHandler struct {
	recurring *recurring.Service
	log       zerolog.Logger
}

// NewRecurringHandler creates a recurring transfers handler.
func NewRecurringHandler(svc *recurring.Service, log zerolog.Logger) *RecurringHandler {
	return &RecurringHandler{recurring: svc, log: log}
}

// Create handles POST /api/recurring-transfers
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recurring.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rt, err := h.recurring.Create(r.Context(), req)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, rt)
}

// List handles GET /api/recurring-transfers?user_id=...
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	list, err := h.recurring.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list recurring transfers")
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recurringTransfers": list,
		"count":              len(list),
	})
}

// Toggle handles POST /api/recurring-transfers/{id}/toggle
func (h *RecurringHandler) Toggle(w http.ResponseWriter, r *http.Request, id string) {
	rt, err := h.recurring.Toggle(r.Context(), id)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, rt)
}
