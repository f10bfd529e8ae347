package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/service"
)

// NotificationHandler exposes in-app notifications over HTTP.
type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/customers/{id}/notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	pageSize, _ := strconv.ParseInt(q.Get("page_size"), 10, 64)

	notes, total, err := h.notifications.GetNotifications(r.Context(), customerID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	if page < 1 {
		page = 1
	}
	jsonResponse(w, http.StatusOK, pagedResponse{Items: notes, Total: total, Page: page})
}

// MarkAsRead handles POST /api/customers/{id}/notifications/{notification_id}/read.
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	customerID, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	notificationID, err := strconv.ParseInt(mux.Vars(r)["notification_id"], 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := h.notifications.MarkAsRead(r.Context(), customerID, notificationID); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "notification marked as read"})
}
