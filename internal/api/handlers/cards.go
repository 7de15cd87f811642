package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/securebank/corebank/internal/api/middleware"
	"github.com/securebank/corebank/internal/cards"
)

// CardsHandler serves card endpoints.
type CardsHandler struct {
	cards *cards.Service
	log   zerolog.Logger
}

// NewCardsHandler creates a cards handler.
func NewCardsHandler(cardSvc *cards.Service, log zerolog.Logger) *CardsHandler {
	return &CardsHandler{cards: cardSvc, log: log}
}

// Issue handles POST /api/cards
func (h *CardsHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID    string `json:"userId"`
		AccountID string `json:"accountId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	card, err := h.cards.Issue(r.Context(), req.UserID, req.AccountID)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, card)
}

// List handles GET /api/cards?user_id=...
func (h *CardsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	list, err := h.cards.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list cards")
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"cards": list,
		"count": len(list),
	})
}

// ToggleFreeze handles POST /api/cards/{id}/freeze
func (h *CardsHandler) ToggleFreeze(w http.ResponseWriter, r *http.Request, cardID string) {
	card, err := h.cards.ToggleFreeze(r.Context(), cardID)
	if err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, card)
}
