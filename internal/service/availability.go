package service

import (
	"context"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

// AvailabilityChecker decides whether a requested window may be granted
// for an asset. It never mutates state, so it is safe to call repeatedly
// or speculatively; the orchestrator re-runs it inside the commit
// transaction to close the check-then-write race.
type AvailabilityChecker struct {
	bookings repository.BookingRepository
}

func NewAvailabilityChecker(bookings repository.BookingRepository) *AvailabilityChecker {
	return &AvailabilityChecker{bookings: bookings}
}

// IsAvailable reports whether [start, end) is free of Pending/Active
// bookings for the asset. excludeID lets an in-progress update re-check
// its own window without self-conflicting; pass 0 to exclude nothing.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, assetID int64, start, end time.Time, excludeID int64) (bool, error) {
	conflicts, err := c.Conflicts(ctx, assetID, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// Conflicts lists the blocking bookings overlapping [start, end), for
// diagnostics. A window that ends exactly when another starts does not
// conflict.
func (c *AvailabilityChecker) Conflicts(ctx context.Context, assetID int64, start, end time.Time, excludeID int64) ([]domain.Booking, error) {
	if !end.After(start) {
		return nil, domain.NewValidationError("booking window must end after it starts")
	}
	return c.bookings.ListConflicts(ctx, assetID, start, end, excludeID)
}
