package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/service"
)

// NewRouter builds the HTTP router with all endpoints registered.
func NewRouter(reservations service.ReservationService, assets service.AssetService, notifications service.NotificationService) http.Handler {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	bookingHandler := NewBookingHandler(reservations)
	assetHandler := NewAssetHandler(assets)
	notificationHandler := NewNotificationHandler(notifications)

	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Bookings. Static paths must register before the {id} matcher.
	api.HandleFunc("/bookings/overdue", bookingHandler.ListOverdue).Methods(http.MethodGet)
	api.HandleFunc("/bookings/upcoming-returns", bookingHandler.ListUpcomingReturns).Methods(http.MethodGet)
	api.HandleFunc("/bookings", bookingHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings", bookingHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}", bookingHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/details", bookingHandler.GetDetails).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id:[0-9]+}/activate", bookingHandler.Activate).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/complete", bookingHandler.Complete).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/cancel", bookingHandler.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/payments", bookingHandler.RecordPayment).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id:[0-9]+}/deposit-return", bookingHandler.ReturnDeposit).Methods(http.MethodPost)

	// Assets.
	api.HandleFunc("/assets/maintenance-due", assetHandler.ListMaintenanceDue).Methods(http.MethodGet)
	api.HandleFunc("/assets", assetHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id:[0-9]+}", assetHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id:[0-9]+}", assetHandler.Update).Methods(http.MethodPut)

	// Reports.
	api.HandleFunc("/reports/revenue", bookingHandler.Revenue).Methods(http.MethodGet)
	api.HandleFunc("/reports/outstanding", bookingHandler.OutstandingPending).Methods(http.MethodGet)

	// Notifications.
	api.HandleFunc("/customers/{id:[0-9]+}/notifications", notificationHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id:[0-9]+}/notifications/{notification_id:[0-9]+}/read", notificationHandler.MarkAsRead).Methods(http.MethodPost)

	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Request handled", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
