package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/securebank/corebank/internal/api/middleware"
	"github.com/securebank/corebank/internal/auth"
	"github.com/securebank/corebank/internal/onboarding"
)

// CustomersHandler serves customer onboarding and authentication endpoints.
type CustomersHandler struct {
	onboarding *onboarding.Service
	auth       *auth.Service
	log        zerolog.Logger
}

// NewCustomersHandler creates a customers handler.
func NewCustomersHandler(onb *onboarding.Service, authSvc *auth.Service, log zerolog.Logger) *CustomersHandler {
	return &CustomersHandler{onboarding: onb, auth: authSvc, log: log}
}

// Register handles POST /api/customers
func (h *CustomersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req onboarding.OpenAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.onboarding.OpenAccount(r.Context(), req)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	h.log.Info().Str("user_id", result.User.ID).Msg("Customer registered")
	middleware.WriteJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/login
func (h *CustomersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountNumber string `json:"accountNumber"`
		PIN           string `json:"pin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.Login(r.Context(), req.AccountNumber, req.PIN, clientIP(r))
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, user)
}

// UpdateProfile handles PUT /api/customers/{id}
func (h *CustomersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), userID, req.Name, req.Email, req.Phone)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, user)
}

// ChangePIN handles POST /api/customers/{id}/pin
func (h *CustomersHandler) ChangePIN(w http.ResponseWriter, r *http.Request, userID string) {
	var req struct {
		CurrentPIN string `json:"currentPin"`
		NewPIN     string `json:"newPin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.auth.ChangePIN(r.Context(), userID, req.CurrentPIN, req.NewPIN); err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "pin changed"})
}

// LoginHistory handles GET /api/customers/{id}/login-history
func (h *CustomersHandler) LoginHistory(w http.ResponseWriter, r *http.Request, userID string) {
	history, err := h.auth.LoginHistory(r.Context(), userID)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
		"count":   len(history),
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
