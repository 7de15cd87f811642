package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/securebank/corebank/internal/api/middleware"
	"github.com/securebank/corebank/internal/fixeddeposit"
)

// FixedDepositsHandler serves fixed deposit endpoints.
type FixedDepositsHandler struct {
	fds *fixeddeposit.Service
	log zerolog.Logger
}

// NewFixedDepositsHandler creates a fixed deposits handler.
func NewFixedDepositsHandler(fds *fixeddeposit.Service, log zerolog.Logger) *FixedDepositsHandler {
	return &FixedDepositsHandler{fds: fds, log: log}
}

// Create handles POST /api/fixed-deposits
func (h *FixedDepositsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID       string          `json:"userId"`
		AccountID    string          `json:"accountId"`
		Principal    decimal.Decimal `json:"principal"`
		TenureMonths int             `json:"tenureMonths"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fd, err := h.fds.Create(r.Context(), req.UserID, req.AccountID, req.Principal, req.TenureMonths)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, fd)
}

// List handles GET /api/fixed-deposits?user_id=...
func (h *FixedDepositsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	fds, err := h.fds.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list fixed deposits")
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"fixedDeposits": fds,
		"count":         len(fds),
	})
}
