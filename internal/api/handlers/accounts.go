// Package handlers implements the HTTP surface over the bank's engines.
// Handlers decode requests, delegate to a service and map sentinel errors
// to status codes; no business rules live here.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/securebank/corebank/internal/api/middleware"
	"github.com/securebank/corebank/internal/domain"
	"github.com/securebank/corebank/internal/ledger"
	"github.com/securebank/corebank/internal/storage"
)

// AccountsHandler serves account and ledger endpoints.
type AccountsHandler struct {
	store  storage.Store
	ledger *ledger.Engine
	log    zerolog.Logger
}

// NewAccountsHandler creates an accounts handler.
func NewAccountsHandler(store storage.Store, engine *ledger.Engine, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{store: store, ledger: engine, log: log}
}

// ListAccounts handles GET /api/accounts?user_id=...
func (h *AccountsHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	accounts, err := h.store.ListAccountsByUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list accounts")
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// OpenAccount handles POST /api/accounts
func (h *AccountsHandler) OpenAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string             `json:"userId"`
		Type   domain.AccountType `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.ledger.OpenAccount(r.Context(), req.UserID, req.Type)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, account)
}

type amountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

// Deposit handles POST /api/accounts/{id}/deposit
func (h *AccountsHandler) Deposit(w http.ResponseWriter, r *http.Request, accountID string) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txn, err := h.ledger.Deposit(r.Context(), accountID, req.Amount, req.Description)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, txn)
}

// Withdraw handles POST /api/accounts/{id}/withdraw
func (h *AccountsHandler) Withdraw(w http.ResponseWriter, r *http.Request, accountID string) {
	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txn, err := h.ledger.Withdraw(r.Context(), accountID, req.Amount, req.Description)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, txn)
}

// Transfer handles POST /api/transfers
func (h *AccountsHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FromAccountID string          `json:"fromAccountId"`
		ToAccountID   string          `json:"toAccountId"`
		Amount        decimal.Decimal `json:"amount"`
		Description   string          `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.ledger.Transfer(r.Context(), req.FromAccountID, req.ToAccountID, req.Amount, req.Description)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, record)
}

// ListTransactions handles GET /api/transactions?account_id=...|user_id=...
func (h *AccountsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		transactions []*domain.Transaction
		err          error
	)
	switch {
	case r.URL.Query().Get("account_id") != "":
		transactions, err = h.store.ListTransactionsByAccount(ctx, r.URL.Query().Get("account_id"))
	case r.URL.Query().Get("user_id") != "":
		transactions, err = h.store.ListTransactionsByUser(ctx, r.URL.Query().Get("user_id"))
	default:
		middleware.WriteError(w, http.StatusBadRequest, "account_id or user_id is required")
		return
	}
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
