package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/securebank/corebank/internal/api/middleware"
	"github.com/securebank/corebank/internal/notify"
	"github.com/securebank/corebank/internal/storage"
)

// NotificationsHandler serves notification endpoints.
type NotificationsHandler struct {
	store  storage.NotificationStore
	alerts *notify.Emitter
	log    zerolog.Logger
}

// NewNotificationsHandler creates a notifications handler.
func NewNotificationsHandler(store storage.NotificationStore, alerts *notify.Emitter, log zerolog.Logger) *NotificationsHandler {
	return &NotificationsHandler{store: store, alerts: alerts, log: log}
}

// List handles GET /api/notifications?user_id=...
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		middleware.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	notifications, err := h.store.ListNotificationsByUser(r.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list notifications")
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"count":         len(notifications),
	})
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.alerts.MarkRead(r.Context(), id); err != nil {
		middleware.WriteDomainError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
