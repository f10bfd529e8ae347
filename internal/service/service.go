package service

import (
	"context"
	"time"

	"fleetrent-backend/internal/domain"
)

// CreateBookingRequest carries everything the orchestrator needs to admit
// a new booking. RateCents of 0 snapshots the asset's rate-card entry for
// the period instead.
type CreateBookingRequest struct {
	CustomerID          int64
	AssetID             int64
	StartDate           time.Time
	EstimatedReturnDate time.Time
	RateCents           int64
	RatePeriod          domain.RatePeriod
	DepositCents        int64
	DiscountCents       int64
	TaxCents            int64
	PickupLocation      string
	ReturnLocation      string
	InitialCondition    string
}

type CompleteBookingRequest struct {
	ReturnDate     time.Time
	FinalHours     int64
	FinalMileage   int64
	FinalCondition string
	ReturnDeposit  bool
}

type ReservationService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error)
	ActivateBooking(ctx context.Context, id int64) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, id int64, req CompleteBookingRequest) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id int64, reason string, returnDeposit bool) (*domain.Booking, error)
	RecordPayment(ctx context.Context, id int64, amountCents int64) (*domain.Booking, error)
	ReturnDeposit(ctx context.Context, id int64) (*domain.Booking, error)

	GetBooking(ctx context.Context, id int64) (*domain.Booking, error)
	GetBookingDetails(ctx context.Context, id int64) (*domain.BookingDetails, error)
	ListBookings(ctx context.Context, filter domain.BookingFilter, page, pageSize int64) ([]domain.Booking, int64, error)
	ListOverdue(ctx context.Context) ([]domain.Booking, error)
	ListUpcomingReturns(ctx context.Context, days int) ([]domain.Booking, error)
	Revenue(ctx context.Context, from, to time.Time) (int64, error)
	OutstandingPending(ctx context.Context) (int64, error)
}

type AssetService interface {
	GetAsset(ctx context.Context, id int64) (*domain.Asset, error)
	ListAssets(ctx context.Context, filter domain.AssetFilter, page, pageSize int64) ([]domain.Asset, int64, error)
	ListNeedingMaintenance(ctx context.Context) ([]domain.Asset, error)
	UpdateAsset(ctx context.Context, asset *domain.Asset) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, customerID int64, page, pageSize int64) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, customerID, notificationID int64) error
}

// EmailService is the outbound notification sink. Calls are fire-and-forget
// from the core's perspective: a failure is logged by the caller, never
// propagated as a booking-operation error.
type EmailService interface {
	SendBookingConfirmation(ctx context.Context, toEmail, toName, assetName string, b *domain.Booking) error
	SendBookingCompletion(ctx context.Context, toEmail, toName, assetName string, b *domain.Booking) error
	SendBookingCancellation(ctx context.Context, toEmail, toName, assetName, reason string) error
	SendReturnReminder(ctx context.Context, toEmail, toName, assetName string, dueDate time.Time) error
	SendOverdueNotice(ctx context.Context, toEmail, toName, assetName string, dueDate time.Time) error
}
