package repository

import (
	"context"
	"time"

	"fleetrent-backend/internal/domain"
)

type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id int64) (*domain.Asset, error)
	// Update writes the asset guarded by its optimistic version; a stale
	// version returns a conflict error.
	Update(ctx context.Context, asset *domain.Asset) error
	List(ctx context.Context, filter domain.AssetFilter, page, pageSize int64) ([]domain.Asset, int64, error)
	ListNeedingMaintenance(ctx context.Context, asOf time.Time) ([]domain.Asset, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByIDWithDetails(ctx context.Context, id int64) (*domain.BookingDetails, error)
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, id int64) error

	// ListConflicts returns Pending/Active bookings for the asset whose
	// half-open window overlaps [start, end). excludeID lets an update
	// re-check without self-conflicting; pass 0 to exclude nothing.
	ListConflicts(ctx context.Context, assetID int64, start, end time.Time, excludeID int64) ([]domain.Booking, error)

	List(ctx context.Context, filter domain.BookingFilter, page, pageSize int64) ([]domain.Booking, int64, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Booking, error)
	ListUpcomingReturns(ctx context.Context, asOf time.Time, days int) ([]domain.Booking, error)

	RevenueBetween(ctx context.Context, from, to time.Time) (int64, error)
	OutstandingPendingTotal(ctx context.Context) (int64, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, customerID int64, page, pageSize int64) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, customerID int64) error
}

// Store bundles the repositories behind one persistence boundary. InTx
// runs fn against a store whose repositories share a single serializable
// transaction; fn returning an error rolls everything back. This is what
// lets the orchestrator compose check-and-reserve atomically.
type Store interface {
	Assets() AssetRepository
	Bookings() BookingRepository
	Customers() CustomerRepository
	Notifications() NotificationRepository
	InTx(ctx context.Context, fn func(Store) error) error
}
