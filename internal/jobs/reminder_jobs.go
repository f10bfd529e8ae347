package jobs

import (
	"context"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/logger"
)

// SendReturnReminders emails customers whose bookings are due back within
// the configured lead window.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()

		bookings, err := jr.services.Reservation.ListUpcomingReturns(ctx, jr.config.Scheduler.ReminderLeadDays)
		if err != nil {
			logger.Error("Failed to list upcoming returns", "error", err)
			return
		}

		count := 0
		for i := range bookings {
			if jr.remind(ctx, &bookings[i], false) {
				count++
			}
		}
		logger.Info("Sent return reminders", "count", count, "candidates", len(bookings))
	})
}

// SendOverdueNotices emails customers whose bookings are past their
// estimated return with no recorded return. Overdue is derived on read;
// this job never transitions a booking.
func (jr *JobRunner) SendOverdueNotices() {
	jr.runWithRecovery("SendOverdueNotices", func() {
		ctx := context.Background()

		bookings, err := jr.services.Reservation.ListOverdue(ctx)
		if err != nil {
			logger.Error("Failed to list overdue bookings", "error", err)
			return
		}

		count := 0
		for i := range bookings {
			if jr.remind(ctx, &bookings[i], true) {
				count++
			}
		}
		logger.Info("Sent overdue notices", "count", count, "candidates", len(bookings))
	})
}

func (jr *JobRunner) remind(ctx context.Context, b *domain.Booking, overdue bool) bool {
	customer, err := jr.store.Customers().GetByID(ctx, b.CustomerID)
	if err != nil {
		logger.Error("Failed to load customer for reminder", "booking_id", b.ID, "customer_id", b.CustomerID, "error", err)
		return false
	}
	asset, err := jr.store.Assets().GetByID(ctx, b.AssetID)
	if err != nil {
		logger.Error("Failed to load asset for reminder", "booking_id", b.ID, "asset_id", b.AssetID, "error", err)
		return false
	}

	name := asset.Brand + " " + asset.Model
	if overdue {
		err = jr.services.Email.SendOverdueNotice(ctx, customer.Email, customer.Name, name, b.EstimatedReturnDate)
	} else {
		err = jr.services.Email.SendReturnReminder(ctx, customer.Email, customer.Name, name, b.EstimatedReturnDate)
	}
	if err != nil {
		logger.Error("Failed to send reminder email", "booking_id", b.ID, "overdue", overdue, "error", err)
		return false
	}
	return true
}
