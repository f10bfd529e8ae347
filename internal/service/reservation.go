package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/pricing"
	"fleetrent-backend/internal/repository"
)

type reservationService struct {
	store    repository.Store
	emailSvc EmailService
}

func NewReservationService(store repository.Store, emailSvc EmailService) ReservationService {
	return &reservationService{store: store, emailSvc: emailSvc}
}

// serviceError passes typed domain errors through and wraps anything else
// as an internal error carrying the operation name.
func serviceError(op string, err error) error {
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	return domain.NewInternalError(op, err)
}

func (s *reservationService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if !req.EstimatedReturnDate.After(req.StartDate) {
		return nil, domain.NewValidationError("booking window must end after it starts")
	}
	if req.RateCents < 0 {
		return nil, domain.NewValidationError("rate must not be negative")
	}
	if req.DepositCents < 0 || req.DiscountCents < 0 || req.TaxCents < 0 {
		return nil, domain.NewValidationError("deposit, discount and tax must not be negative")
	}
	switch req.RatePeriod {
	case domain.RatePeriodHourly, domain.RatePeriodDaily, domain.RatePeriodWeekly, domain.RatePeriodMonthly:
	default:
		return nil, domain.NewValidationError("unknown rate period %q", req.RatePeriod)
	}

	var booking *domain.Booking
	var customer *domain.Customer
	var asset *domain.Asset

	// Admission check and both writes share one serializable transaction:
	// of two racing requests for the same asset and window, the second
	// committer observes the first's write and fails with a conflict
	// instead of double-booking. No retry here; re-running admission
	// against fresh data is the caller's decision.
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		customer, err = tx.Customers().GetByID(ctx, req.CustomerID)
		if err != nil {
			return err
		}
		asset, err = tx.Assets().GetByID(ctx, req.AssetID)
		if err != nil {
			return err
		}
		if !asset.Rentable() {
			return domain.NewValidationError("asset %d is not rentable (status %s, active %t)", asset.ID, asset.Status, asset.IsActive)
		}

		checker := NewAvailabilityChecker(tx.Bookings())
		conflicts, err := checker.Conflicts(ctx, req.AssetID, req.StartDate, req.EstimatedReturnDate, 0)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return domain.NewConflictError("asset %d already booked in the requested window (%d conflicting bookings)", asset.ID, len(conflicts))
		}

		rate := req.RateCents
		if rate == 0 {
			rate = asset.RateFor(req.RatePeriod)
		}
		amounts, err := pricing.ComputeAmounts(rate, req.RatePeriod, req.StartDate, req.EstimatedReturnDate, req.DiscountCents, req.TaxCents)
		if err != nil {
			return err
		}

		booking = &domain.Booking{
			Reference:           uuid.NewString(),
			AssetID:             asset.ID,
			CustomerID:          customer.ID,
			StartDate:           req.StartDate,
			EstimatedReturnDate: req.EstimatedReturnDate,
			Status:              domain.BookingStatusPending,
			RateCents:           rate,
			RatePeriod:          req.RatePeriod,
			DepositCents:        req.DepositCents,
			SubtotalCents:       amounts.SubtotalCents,
			TaxCents:            req.TaxCents,
			DiscountCents:       req.DiscountCents,
			TotalCents:          amounts.TotalCents,
			PickupLocation:      req.PickupLocation,
			ReturnLocation:      req.ReturnLocation,
			InitialHours:        asset.CurrentHours,
			InitialMileage:      asset.CurrentMileage,
			InitialCondition:    req.InitialCondition,
		}
		pricing.RecomputePending(booking)

		if err := tx.Bookings().Create(ctx, booking); err != nil {
			return err
		}

		asset.Status = domain.AssetStatusRented
		return tx.Assets().Update(ctx, asset)
	})
	if err != nil {
		return nil, serviceError("create booking", err)
	}

	s.notify(ctx, customer, asset, booking, "Booking Confirmed",
		fmt.Sprintf("Your booking %s for %s %s is confirmed from %s to %s",
			booking.Reference, asset.Brand, asset.Model,
			booking.StartDate.Format("2006-01-02"), booking.EstimatedReturnDate.Format("2006-01-02")),
		"BOOKING_CONFIRMED",
		func() error {
			return s.emailSvc.SendBookingConfirmation(ctx, customer.Email, customer.Name, assetName(asset), booking)
		})

	return booking, nil
}

func (s *reservationService) ActivateBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if booking.Terminal() {
			return domain.NewConflictError("booking %d is already %s", id, booking.Status)
		}
		if booking.Status == domain.BookingStatusActive {
			return nil // already active, nothing to do
		}
		booking.Status = domain.BookingStatusActive
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, serviceError("activate booking", err)
	}
	return booking, nil
}

func (s *reservationService) CompleteBooking(ctx context.Context, id int64, req CompleteBookingRequest) (*domain.Booking, error) {
	var booking *domain.Booking
	var customer *domain.Customer
	var asset *domain.Asset

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if booking.Terminal() {
			return domain.NewConflictError("booking %d is already %s", id, booking.Status)
		}
		if !req.ReturnDate.After(booking.StartDate) {
			return domain.NewValidationError("return date must be after the booking start")
		}

		returnDate := req.ReturnDate
		booking.ActualReturnDate = &returnDate
		booking.Status = domain.BookingStatusCompleted
		booking.FinalHours = req.FinalHours
		booking.FinalMileage = req.FinalMileage
		booking.FinalCondition = req.FinalCondition
		if req.ReturnDeposit {
			booking.DepositReturned = true
		}

		// The effective window may have shrunk or grown; bill what was
		// actually used.
		if err := pricing.Reprice(booking); err != nil {
			return err
		}
		if err := tx.Bookings().Update(ctx, booking); err != nil {
			return err
		}

		asset, err = tx.Assets().GetByID(ctx, booking.AssetID)
		if err != nil {
			return err
		}
		asset.Status = domain.AssetStatusAvailable
		// Final readings only ever advance the counters.
		if req.FinalHours > asset.CurrentHours {
			asset.CurrentHours = req.FinalHours
		}
		if req.FinalMileage > asset.CurrentMileage {
			asset.CurrentMileage = req.FinalMileage
		}
		if err := tx.Assets().Update(ctx, asset); err != nil {
			return err
		}

		customer, err = tx.Customers().GetByID(ctx, booking.CustomerID)
		return err
	})
	if err != nil {
		return nil, serviceError("complete booking", err)
	}

	s.notify(ctx, customer, asset, booking, "Booking Completed",
		fmt.Sprintf("Booking %s is completed; total charged %d cents", booking.Reference, booking.TotalCents),
		"BOOKING_COMPLETED",
		func() error {
			return s.emailSvc.SendBookingCompletion(ctx, customer.Email, customer.Name, assetName(asset), booking)
		})

	return booking, nil
}

func (s *reservationService) CancelBooking(ctx context.Context, id int64, reason string, returnDeposit bool) (*domain.Booking, error) {
	if reason == "" {
		return nil, domain.NewValidationError("cancellation reason is required")
	}

	var booking *domain.Booking
	var customer *domain.Customer
	var asset *domain.Asset

	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if booking.Terminal() {
			return domain.NewConflictError("booking %d is already %s", id, booking.Status)
		}

		// Payments already recorded stay on the ledger for manual
		// reconciliation; cancellation does not zero the pending amount.
		booking.Status = domain.BookingStatusCancelled
		booking.CancellationReason = reason
		if returnDeposit {
			booking.DepositReturned = true
		}
		if err := tx.Bookings().Update(ctx, booking); err != nil {
			return err
		}

		asset, err = tx.Assets().GetByID(ctx, booking.AssetID)
		if err != nil {
			return err
		}
		asset.Status = domain.AssetStatusAvailable
		if err := tx.Assets().Update(ctx, asset); err != nil {
			return err
		}

		customer, err = tx.Customers().GetByID(ctx, booking.CustomerID)
		return err
	})
	if err != nil {
		return nil, serviceError("cancel booking", err)
	}

	s.notify(ctx, customer, asset, booking, "Booking Cancelled",
		fmt.Sprintf("Booking %s was cancelled: %s", booking.Reference, reason),
		"BOOKING_CANCELLED",
		func() error {
			return s.emailSvc.SendBookingCancellation(ctx, customer.Email, customer.Name, assetName(asset), reason)
		})

	return booking, nil
}

func (s *reservationService) RecordPayment(ctx context.Context, id int64, amountCents int64) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if booking.Terminal() {
			return domain.NewConflictError("booking %d is already %s", id, booking.Status)
		}
		if err := pricing.ApplyPayment(booking, amountCents); err != nil {
			return err
		}
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, serviceError("record payment", err)
	}
	return booking, nil
}

// ReturnDeposit marks the deposit as released. Idempotent: returning an
// already-returned deposit is a no-op success.
func (s *reservationService) ReturnDeposit(ctx context.Context, id int64) (*domain.Booking, error) {
	var booking *domain.Booking
	err := s.store.InTx(ctx, func(tx repository.Store) error {
		var err error
		booking, err = tx.Bookings().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if booking.DepositReturned {
			return nil
		}
		booking.DepositReturned = true
		return tx.Bookings().Update(ctx, booking)
	})
	if err != nil {
		return nil, serviceError("return deposit", err)
	}
	return booking, nil
}

func (s *reservationService) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.store.Bookings().GetByID(ctx, id)
	if err != nil {
		return nil, serviceError("get booking", err)
	}
	return b, nil
}

func (s *reservationService) GetBookingDetails(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	d, err := s.store.Bookings().GetByIDWithDetails(ctx, id)
	if err != nil {
		return nil, serviceError("get booking details", err)
	}
	return d, nil
}

func (s *reservationService) ListBookings(ctx context.Context, filter domain.BookingFilter, page, pageSize int64) ([]domain.Booking, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	bookings, total, err := s.store.Bookings().List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, serviceError("list bookings", err)
	}
	return bookings, total, nil
}

func (s *reservationService) ListOverdue(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.store.Bookings().ListOverdue(ctx, time.Now())
	if err != nil {
		return nil, serviceError("list overdue bookings", err)
	}
	return bookings, nil
}

func (s *reservationService) ListUpcomingReturns(ctx context.Context, days int) ([]domain.Booking, error) {
	if days <= 0 {
		return nil, domain.NewValidationError("days must be positive")
	}
	bookings, err := s.store.Bookings().ListUpcomingReturns(ctx, time.Now(), days)
	if err != nil {
		return nil, serviceError("list upcoming returns", err)
	}
	return bookings, nil
}

func (s *reservationService) Revenue(ctx context.Context, from, to time.Time) (int64, error) {
	if !to.After(from) {
		return 0, domain.NewValidationError("revenue range must end after it starts")
	}
	total, err := s.store.Bookings().RevenueBetween(ctx, from, to)
	if err != nil {
		return 0, serviceError("revenue", err)
	}
	return total, nil
}

func (s *reservationService) OutstandingPending(ctx context.Context) (int64, error) {
	total, err := s.store.Bookings().OutstandingPendingTotal(ctx)
	if err != nil {
		return 0, serviceError("outstanding pending", err)
	}
	return total, nil
}

func assetName(a *domain.Asset) string {
	return fmt.Sprintf("%s %s", a.Brand, a.Model)
}

// notify dispatches the email and in-app notification for a committed
// transition. Failures are logged with enough context to reproduce and
// never roll back or fail the booking operation.
func (s *reservationService) notify(ctx context.Context, customer *domain.Customer, asset *domain.Asset, booking *domain.Booking, title, message, kind string, sendEmail func() error) {
	if customer == nil || asset == nil || booking == nil {
		return
	}
	if err := sendEmail(); err != nil {
		logger.Warn("failed to send booking email", "kind", kind, "booking_id", booking.ID, "customer_id", customer.ID, "error", err)
	}
	note := &domain.Notification{
		CustomerID: customer.ID,
		Title:      title,
		Message:    message,
		Attributes: map[string]string{
			"type":       kind,
			"booking_id": fmt.Sprintf("%d", booking.ID),
		},
	}
	if err := s.store.Notifications().Create(ctx, note); err != nil {
		logger.Warn("failed to record notification", "kind", kind, "booking_id", booking.ID, "customer_id", customer.ID, "error", err)
	}
}
