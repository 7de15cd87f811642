package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/securebank/corebank/internal/api/middleware"
	"github.com/securebank/corebank/internal/auth"
	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/fixeddeposit"
	"github.com/securebank/corebank/internal/storage"
)

// AdminHandler serves the administrative console endpoints.
type AdminHandler struct {
	store storage.Store
	auth  *auth.Service
	fds   *fixeddeposit.Service
	log   zerolog.Logger
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(store storage.Store, authSvc *auth.Service, fds *fixeddeposit.Service, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{store: store, auth: authSvc, fds: fds, log: log}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.auth.VerifyAdmin(r.Context(), req.Username, req.Password); err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list users")
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// SetUserLock handles POST /api/admin/users/{id}/lock
func (h *AdminHandler) SetUserLock(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		Locked bool `json:"locked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.SetLocked(r.Context(), userID, req.Locked)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, user)
}

// MarkFixedDepositMatured handles POST /api/admin/fixed-deposits/{id}/mature
func (h *AdminHandler) MarkFixedDepositMatured(w http.ResponseWriter, r *http.Request, id string) {
	fd, err := h.fds.MarkMatured(r.Context(), id)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, fd)
}

// ListTransactions handles GET /api/admin/transactions
func (h *AdminHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.store.ListTransactions(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list transactions")
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// Stats handles GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.store.ListUsers(ctx)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	accounts, err := h.store.ListAccounts(ctx)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	transactions, err := h.store.ListTransactions(ctx)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	fds, err := h.store.ListFixedDeposits(ctx)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}

	totalBalance := decimal.Zero
	for _, a := range accounts {
		totalBalance = totalBalance.Add(a.Balance)
	}
	activeFDs := 0
	fdPrincipal := decimal.Zero
	for _, fd := range fds {
		if fd.Status == domain.FixedDepositActive {
			activeFDs++
			fdPrincipal = fdPrincipal.Add(fd.Amount)
		}
	}
	lockedUsers := 0
	for _, u := range users {
		if u.Locked {
			lockedUsers++
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"totalUsers":            len(users),
		"lockedUsers":           lockedUsers,
		"totalAccounts":         len(accounts),
		"totalBalance":          totalBalance,
		"totalTransactions":     len(transactions),
		"activeFixedDeposits":   activeFDs,
		"fixedDepositPrincipal": fdPrincipal,
	})
}
