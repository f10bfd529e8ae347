package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/service"
)

// BookingHandler exposes the reservation lifecycle over HTTP.
type BookingHandler struct {
	reservations service.ReservationService
}

func NewBookingHandler(reservations service.ReservationService) *BookingHandler {
	return &BookingHandler{reservations: reservations}
}

type createBookingRequest struct {
	CustomerID          int64  `json:"customer_id"`
	AssetID             int64  `json:"asset_id"`
	StartDate           string `json:"start_date"`
	EstimatedReturnDate string `json:"estimated_return_date"`
	RateCents           int64  `json:"rate_cents"`
	RatePeriod          string `json:"rate_period"`
	DepositCents        int64  `json:"deposit_cents"`
	DiscountCents       int64  `json:"discount_cents"`
	TaxCents            int64  `json:"tax_cents"`
	PickupLocation      string `json:"pickup_location"`
	ReturnLocation      string `json:"return_location"`
	InitialCondition    string `json:"initial_condition"`
}

type completeBookingRequest struct {
	ReturnDate     string `json:"return_date"`
	FinalHours     int64  `json:"final_hours"`
	FinalMileage   int64  `json:"final_mileage"`
	FinalCondition string `json:"final_condition"`
	ReturnDeposit  bool   `json:"return_deposit"`
}

type cancelBookingRequest struct {
	Reason        string `json:"reason"`
	ReturnDeposit bool   `json:"return_deposit"`
}

type paymentRequest struct {
	AmountCents int64 `json:"amount_cents"`
}

type pagedResponse struct {
	Items any   `json:"items"`
	Total int64 `json:"total"`
	Page  int64 `json:"page"`
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid start_date")
		return
	}
	end, err := parseDate(req.EstimatedReturnDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid estimated_return_date")
		return
	}

	booking, err := h.reservations.CreateBooking(r.Context(), service.CreateBookingRequest{
		CustomerID:          req.CustomerID,
		AssetID:             req.AssetID,
		StartDate:           start,
		EstimatedReturnDate: end,
		RateCents:           req.RateCents,
		RatePeriod:          domain.RatePeriod(req.RatePeriod),
		DepositCents:        req.DepositCents,
		DiscountCents:       req.DiscountCents,
		TaxCents:            req.TaxCents,
		PickupLocation:      req.PickupLocation,
		ReturnLocation:      req.ReturnLocation,
		InitialCondition:    req.InitialCondition,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, booking)
}

// Get handles GET /api/bookings/{id}.
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.reservations.GetBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, booking)
}

// GetDetails handles GET /api/bookings/{id}/details.
func (h *BookingHandler) GetDetails(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	details, err := h.reservations.GetBookingDetails(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, details)
}

// List handles GET /api/bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.BookingFilter{
		Status: domain.BookingStatus(q.Get("status")),
	}
	filter.CustomerID, _ = strconv.ParseInt(q.Get("customer_id"), 10, 64)
	filter.AssetID, _ = strconv.ParseInt(q.Get("asset_id"), 10, 64)
	if v := q.Get("from"); v != "" {
		if t, err := parseDate(v); err == nil {
			filter.From = &t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := parseDate(v); err == nil {
			filter.To = &t
		}
	}

	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	pageSize, _ := strconv.ParseInt(q.Get("page_size"), 10, 64)

	bookings, total, err := h.reservations.ListBookings(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	if page < 1 {
		page = 1
	}
	jsonResponse(w, http.StatusOK, pagedResponse{Items: bookings, Total: total, Page: page})
}

// Activate handles POST /api/bookings/{id}/activate.
func (h *BookingHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.reservations.ActivateBooking(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, booking)
}

// Complete handles POST /api/bookings/{id}/complete.
func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req completeBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	returnDate, err := parseDate(req.ReturnDate)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid return_date")
		return
	}

	booking, err := h.reservations.CompleteBooking(r.Context(), id, service.CompleteBookingRequest{
		ReturnDate:     returnDate,
		FinalHours:     req.FinalHours,
		FinalMileage:   req.FinalMileage,
		FinalCondition: req.FinalCondition,
		ReturnDeposit:  req.ReturnDeposit,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, booking)
}

// Cancel handles POST /api/bookings/{id}/cancel.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req cancelBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := h.reservations.CancelBooking(r.Context(), id, req.Reason, req.ReturnDeposit)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, booking)
}

// RecordPayment handles POST /api/bookings/{id}/payments.
func (h *BookingHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	booking, err := h.reservations.RecordPayment(r.Context(), id, req.AmountCents)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, booking)
}

// ReturnDeposit handles POST /api/bookings/{id}/deposit-return.
func (h *BookingHandler) ReturnDeposit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := h.reservations.ReturnDeposit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, booking)
}

// ListOverdue handles GET /api/bookings/overdue.
func (h *BookingHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.reservations.ListOverdue(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	jsonResponse(w, http.StatusOK, bookings)
}

// ListUpcomingReturns handles GET /api/bookings/upcoming-returns.
func (h *BookingHandler) ListUpcomingReturns(w http.ResponseWriter, r *http.Request) {
	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		days = 2
	}

	bookings, err := h.reservations.ListUpcomingReturns(r.Context(), days)
	if err != nil {
		writeError(w, err)
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	jsonResponse(w, http.StatusOK, bookings)
}

// Revenue handles GET /api/reports/revenue.
func (h *BookingHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDate(q.Get("from"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid to date")
		return
	}

	total, err := h.reservations.Revenue(r.Context(), from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"revenue_cents": total})
}

// OutstandingPending handles GET /api/reports/outstanding.
func (h *BookingHandler) OutstandingPending(w http.ResponseWriter, r *http.Request) {
	total, err := h.reservations.OutstandingPending(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"outstanding_cents": total})
}
