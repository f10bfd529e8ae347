package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fleetrent-backend/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testAsset() *domain.Asset {
	return &domain.Asset{
		ID:             7,
		Brand:          "Kubota",
		Model:          "KX040",
		DailyRateCents: 10000,
		Status:         domain.AssetStatusAvailable,
		IsActive:       true,
		CurrentHours:   120,
		CurrentMileage: 0,
		Version:        3,
	}
}

func testCustomer() *domain.Customer {
	return &domain.Customer{ID: 42, Name: "Dana Reyes", Email: "dana@test.com"}
}

func TestCreateBooking_HappyPath(t *testing.T) {
	store := NewMockStore()
	emailSvc := new(MockEmailService)
	svc := NewReservationService(store, emailSvc)
	ctx := context.Background()

	asset := testAsset()
	customer := testCustomer()
	start := date(2026, time.March, 1)
	end := date(2026, time.March, 5)

	store.customers.On("GetByID", ctx, int64(42)).Return(customer, nil).Once()
	store.assets.On("GetByID", ctx, int64(7)).Return(asset, nil).Once()
	store.bookings.On("ListConflicts", ctx, int64(7), start, end, int64(0)).Return([]domain.Booking{}, nil).Once()
	store.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusPending &&
			b.Reference != "" &&
			b.SubtotalCents == 40000 && // 4 days at 10000
			b.TotalCents == 40000 &&
			b.PendingCents == 40000 &&
			b.PaidCents == 0 &&
			b.RateCents == 10000 &&
			b.InitialHours == 120
	})).Return(nil).Once()
	store.assets.On("Update", ctx, mock.MatchedBy(func(a *domain.Asset) bool {
		return a.Status == domain.AssetStatusRented
	})).Return(nil).Once()
	emailSvc.On("SendBookingConfirmation", ctx, "dana@test.com", "Dana Reyes", "Kubota KX040", mock.Anything).Return(nil).Once()
	store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

	booking, err := svc.CreateBooking(ctx, CreateBookingRequest{
		CustomerID:          42,
		AssetID:             7,
		StartDate:           start,
		EstimatedReturnDate: end,
		RatePeriod:          domain.RatePeriodDaily,
	})

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, booking.Status)
	assert.Equal(t, int64(40000), booking.TotalCents)
	store.AssertExpectations(t)
	emailSvc.AssertExpectations(t)
}

func TestCreateBooking_WindowConflict(t *testing.T) {
	store := NewMockStore()
	emailSvc := new(MockEmailService)
	svc := NewReservationService(store, emailSvc)
	ctx := context.Background()

	asset := testAsset()
	customer := testCustomer()
	start := date(2026, time.March, 3)
	end := date(2026, time.March, 10)

	store.customers.On("GetByID", ctx, int64(42)).Return(customer, nil).Once()
	store.assets.On("GetByID", ctx, int64(7)).Return(asset, nil).Once()
	existing := domain.Booking{ID: 1, AssetID: 7, Status: domain.BookingStatusActive,
		StartDate: date(2026, time.March, 1), EstimatedReturnDate: date(2026, time.March, 5)}
	store.bookings.On("ListConflicts", ctx, int64(7), start, end, int64(0)).Return([]domain.Booking{existing}, nil).Once()

	_, err := svc.CreateBooking(ctx, CreateBookingRequest{
		CustomerID:          42,
		AssetID:             7,
		StartDate:           start,
		EstimatedReturnDate: end,
		RatePeriod:          domain.RatePeriodDaily,
	})

	assert.True(t, domain.IsConflict(err))
	store.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestCreateBooking_BackToBackWindowSucceeds(t *testing.T) {
	store := NewMockStore()
	emailSvc := new(MockEmailService)
	svc := NewReservationService(store, emailSvc)
	ctx := context.Background()

	asset := testAsset()
	customer := testCustomer()
	// Existing booking ends Mar 5; a window starting exactly Mar 5 is free.
	start := date(2026, time.March, 5)
	end := date(2026, time.March, 10)

	store.customers.On("GetByID", ctx, int64(42)).Return(customer, nil).Once()
	store.assets.On("GetByID", ctx, int64(7)).Return(asset, nil).Once()
	store.bookings.On("ListConflicts", ctx, int64(7), start, end, int64(0)).Return([]domain.Booking{}, nil).Once()
	store.bookings.On("Create", ctx, mock.Anything).Return(nil).Once()
	store.assets.On("Update", ctx, mock.Anything).Return(nil).Once()
	emailSvc.On("SendBookingConfirmation", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

	booking, err := svc.CreateBooking(ctx, CreateBookingRequest{
		CustomerID:          42,
		AssetID:             7,
		StartDate:           start,
		EstimatedReturnDate: end,
		RatePeriod:          domain.RatePeriodDaily,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(50000), booking.TotalCents) // 5 days
	store.AssertExpectations(t)
}

func TestCreateBooking_AssetNotRentable(t *testing.T) {
	store := NewMockStore()
	emailSvc := new(MockEmailService)
	svc := NewReservationService(store, emailSvc)
	ctx := context.Background()

	asset := testAsset()
	asset.Status = domain.AssetStatusMaintenance

	store.customers.On("GetByID", ctx, int64(42)).Return(testCustomer(), nil).Once()
	store.assets.On("GetByID", ctx, int64(7)).Return(asset, nil).Once()

	_, err := svc.CreateBooking(ctx, CreateBookingRequest{
		CustomerID:          42,
		AssetID:             7,
		StartDate:           date(2026, time.March, 1),
		EstimatedReturnDate: date(2026, time.March, 5),
		RatePeriod:          domain.RatePeriodDaily,
	})

	assert.True(t, domain.IsValidation(err))
	store.AssertExpectations(t)
}

func TestCreateBooking_CustomerNotFound(t *testing.T) {
	store := NewMockStore()
	emailSvc := new(MockEmailService)
	svc := NewReservationService(store, emailSvc)
	ctx := context.Background()

	store.customers.On("GetByID", ctx, int64(42)).Return(nil, domain.NewNotFoundError("customer 42 not found")).Once()

	_, err := svc.CreateBooking(ctx, CreateBookingRequest{
		CustomerID:          42,
		AssetID:             7,
		StartDate:           date(2026, time.March, 1),
		EstimatedReturnDate: date(2026, time.March, 5),
		RatePeriod:          domain.RatePeriodDaily,
	})

	assert.True(t, domain.IsNotFound(err))
	store.AssertExpectations(t)
}

func TestCreateBooking_InvalidWindow(t *testing.T) {
	store := NewMockStore()
	emailSvc := new(MockEmailService)
	svc := NewReservationService(store, emailSvc)
	ctx := context.Background()

	t.Run("EndEqualsStart", func(t *testing.T) {
		d := date(2026, time.March, 1)
		_, err := svc.CreateBooking(ctx, CreateBookingRequest{
			CustomerID: 42, AssetID: 7, StartDate: d, EstimatedReturnDate: d,
			RatePeriod: domain.RatePeriodDaily,
		})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, CreateBookingRequest{
			CustomerID: 42, AssetID: 7,
			StartDate:           date(2026, time.March, 5),
			EstimatedReturnDate: date(2026, time.March, 1),
			RatePeriod:          domain.RatePeriodDaily,
		})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("UnknownPeriod", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, CreateBookingRequest{
			CustomerID: 42, AssetID: 7,
			StartDate:           date(2026, time.March, 1),
			EstimatedReturnDate: date(2026, time.March, 5),
			RatePeriod:          domain.RatePeriod("FORTNIGHTLY"),
		})
		assert.True(t, domain.IsValidation(err))
	})
}

func TestCompleteBooking_EarlyReturnReprices(t *testing.T) {
	store := NewMockStore()
	emailSvc := new(MockEmailService)
	svc := NewReservationService(store, emailSvc)
	ctx := context.Background()

	booking := &domain.Booking{
		ID: 9, Reference: "ref-9", AssetID: 7, CustomerID: 42,
		StartDate:           date(2026, time.March, 1),
		EstimatedReturnDate: date(2026, time.March, 10),
		Status:              domain.BookingStatusActive,
		RateCents:           10000,
		RatePeriod:          domain.RatePeriodDaily,
		SubtotalCents:       90000,
		TotalCents:          90000,
		PendingCents:        90000,
	}
	asset := testAsset()
	asset.Status = domain.AssetStatusRented

	store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()
	store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusCompleted &&
			b.ActualReturnDate != nil &&
			b.TotalCents == 30000 && // repriced to 3 days
			b.PendingCents == 30000
	})).Return(nil).Once()
	store.assets.On("GetByID", ctx, int64(7)).Return(asset, nil).Once()
	store.assets.On("Update", ctx, mock.MatchedBy(func(a *domain.Asset) bool {
		// Counters only advance; 100 hours would regress from 120.
		return a.Status == domain.AssetStatusAvailable && a.CurrentHours == 150
	})).Return(nil).Once()
	store.customers.On("GetByID", ctx, int64(42)).Return(testCustomer(), nil).Once()
	emailSvc.On("SendBookingCompletion", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

	result, err := svc.CompleteBooking(ctx, 9, CompleteBookingRequest{
		ReturnDate: date(2026, time.March, 4),
		FinalHours: 150,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(30000), result.TotalCents)
	store.AssertExpectations(t)
}

func TestCompleteBooking_TerminalStateRejected(t *testing.T) {
	store := NewMockStore()
	emailSvc := new(MockEmailService)
	svc := NewReservationService(store, emailSvc)
	ctx := context.Background()

	booking := &domain.Booking{ID: 9, Status: domain.BookingStatusCancelled,
		StartDate: date(2026, time.March, 1)}
	store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()

	_, err := svc.CompleteBooking(ctx, 9, CompleteBookingRequest{
		ReturnDate: date(2026, time.March, 4),
	})

	assert.True(t, domain.IsConflict(err))
	store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestCancelBooking_LeavesLedgerUntouched(t *testing.T) {
	store := NewMockStore()
	emailSvc := new(MockEmailService)
	svc := NewReservationService(store, emailSvc)
	ctx := context.Background()

	booking := &domain.Booking{
		ID: 9, Reference: "ref-9", AssetID: 7, CustomerID: 42,
		StartDate:           date(2026, time.March, 1),
		EstimatedReturnDate: date(2026, time.March, 10),
		Status:              domain.BookingStatusPending,
		TotalCents:          90000,
		PaidCents:           20000,
		PendingCents:        70000,
	}
	asset := testAsset()
	asset.Status = domain.AssetStatusRented

	store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()
	store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusCancelled &&
			b.CancellationReason == "customer request" &&
			b.PaidCents == 20000 &&
			b.PendingCents == 70000 &&
			!b.DepositReturned
	})).Return(nil).Once()
	store.assets.On("GetByID", ctx, int64(7)).Return(asset, nil).Once()
	store.assets.On("Update", ctx, mock.MatchedBy(func(a *domain.Asset) bool {
		return a.Status == domain.AssetStatusAvailable
	})).Return(nil).Once()
	store.customers.On("GetByID", ctx, int64(42)).Return(testCustomer(), nil).Once()
	emailSvc.On("SendBookingCancellation", ctx, mock.Anything, mock.Anything, mock.Anything, "customer request").Return(nil).Once()
	store.notifications.On("Create", ctx, mock.Anything).Return(nil).Once()

	_, err := svc.CancelBooking(ctx, 9, "customer request", false)
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestCancelBooking_ReasonRequired(t *testing.T) {
	store := NewMockStore()
	svc := NewReservationService(store, new(MockEmailService))

	_, err := svc.CancelBooking(context.Background(), 9, "", false)
	assert.True(t, domain.IsValidation(err))
	store.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()

	newBooking := func() *domain.Booking {
		return &domain.Booking{
			ID: 9, Status: domain.BookingStatusActive,
			TotalCents: 50000, PaidCents: 0, PendingCents: 50000,
		}
	}

	t.Run("PartialPayment", func(t *testing.T) {
		store := NewMockStore()
		svc := NewReservationService(store, new(MockEmailService))
		booking := newBooking()

		store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.PaidCents == 20000 && b.PendingCents == 30000
		})).Return(nil).Once()

		result, err := svc.RecordPayment(ctx, 9, 20000)
		assert.NoError(t, err)
		assert.Equal(t, result.TotalCents, result.PaidCents+result.PendingCents)
		store.AssertExpectations(t)
	})

	t.Run("OverpaymentRejected", func(t *testing.T) {
		store := NewMockStore()
		svc := NewReservationService(store, new(MockEmailService))
		booking := newBooking()
		booking.PaidCents = 40000
		booking.PendingCents = 10000

		store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()

		_, err := svc.RecordPayment(ctx, 9, 20000)
		assert.True(t, domain.IsValidation(err))
		// The rejected payment must not have touched the ledger.
		assert.Equal(t, int64(40000), booking.PaidCents)
		assert.Equal(t, int64(10000), booking.PendingCents)
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("NonPositiveAmountRejected", func(t *testing.T) {
		store := NewMockStore()
		svc := NewReservationService(store, new(MockEmailService))

		store.bookings.On("GetByID", ctx, int64(9)).Return(newBooking(), nil).Twice()

		_, err := svc.RecordPayment(ctx, 9, 0)
		assert.True(t, domain.IsValidation(err))
		_, err = svc.RecordPayment(ctx, 9, -100)
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("TerminalBookingRejected", func(t *testing.T) {
		store := NewMockStore()
		svc := NewReservationService(store, new(MockEmailService))
		booking := newBooking()
		booking.Status = domain.BookingStatusCompleted

		store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()

		_, err := svc.RecordPayment(ctx, 9, 10000)
		assert.True(t, domain.IsConflict(err))
	})
}

func TestReturnDeposit_Idempotent(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstReturn", func(t *testing.T) {
		store := NewMockStore()
		svc := NewReservationService(store, new(MockEmailService))
		booking := &domain.Booking{ID: 9, Status: domain.BookingStatusCompleted, DepositCents: 5000}

		store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.DepositReturned
		})).Return(nil).Once()

		result, err := svc.ReturnDeposit(ctx, 9)
		assert.NoError(t, err)
		assert.True(t, result.DepositReturned)
		store.AssertExpectations(t)
	})

	t.Run("AlreadyReturned", func(t *testing.T) {
		store := NewMockStore()
		svc := NewReservationService(store, new(MockEmailService))
		booking := &domain.Booking{ID: 9, Status: domain.BookingStatusCompleted, DepositReturned: true}

		store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()

		result, err := svc.ReturnDeposit(ctx, 9)
		assert.NoError(t, err)
		assert.True(t, result.DepositReturned)
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestActivateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("PendingToActive", func(t *testing.T) {
		store := NewMockStore()
		svc := NewReservationService(store, new(MockEmailService))
		booking := &domain.Booking{ID: 9, Status: domain.BookingStatusPending}

		store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()
		store.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingStatusActive
		})).Return(nil).Once()

		result, err := svc.ActivateBooking(ctx, 9)
		assert.NoError(t, err)
		assert.Equal(t, domain.BookingStatusActive, result.Status)
	})

	t.Run("AlreadyActiveIsNoOp", func(t *testing.T) {
		store := NewMockStore()
		svc := NewReservationService(store, new(MockEmailService))
		booking := &domain.Booking{ID: 9, Status: domain.BookingStatusActive}

		store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()

		_, err := svc.ActivateBooking(ctx, 9)
		assert.NoError(t, err)
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("TerminalRejected", func(t *testing.T) {
		store := NewMockStore()
		svc := NewReservationService(store, new(MockEmailService))
		booking := &domain.Booking{ID: 9, Status: domain.BookingStatusCompleted}

		store.bookings.On("GetByID", ctx, int64(9)).Return(booking, nil).Once()

		_, err := svc.ActivateBooking(ctx, 9)
		assert.True(t, domain.IsConflict(err))
	})
}
