// Package pricing derives billing amounts for bookings. All monetary
// values are integer cents; rounding happens here, at computation time,
// never at display.
package pricing

import (
	"time"

	"fleetrent-backend/internal/domain"
)

// Amounts is the financial result of pricing a booking window.
type Amounts struct {
	Units         int64
	SubtotalCents int64
	TotalCents    int64
}

// BillingUnits converts the half-open window [start, end) into whole
// billing units for the given rate period, rounding partial units up so
// the provider is never underpaid. end must be after start.
func BillingUnits(period domain.RatePeriod, start, end time.Time) (int64, error) {
	if !end.After(start) {
		return 0, domain.NewValidationError("booking window must end after it starts")
	}

	switch period {
	case domain.RatePeriodHourly:
		return ceilUnits(end.Sub(start), time.Hour), nil
	case domain.RatePeriodDaily:
		return ceilUnits(end.Sub(start), 24*time.Hour), nil
	case domain.RatePeriodWeekly:
		days := ceilUnits(end.Sub(start), 24*time.Hour)
		weeks := days / 7
		if days%7 != 0 {
			weeks++
		}
		return weeks, nil
	case domain.RatePeriodMonthly:
		return calendarMonths(start, end), nil
	default:
		return 0, domain.NewValidationError("unknown rate period %q", period)
	}
}

func ceilUnits(d, unit time.Duration) int64 {
	n := int64(d / unit)
	if d%unit != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// calendarMonths counts whole calendar months in [start, end), rounding a
// trailing partial month up. Exactly Jan 15 -> Mar 15 is 2 months; one
// extra day makes it 3.
func calendarMonths(start, end time.Time) int64 {
	months := int64(end.Year()-start.Year())*12 + int64(end.Month()-start.Month())

	// Anchor the computed number of full months at the start date and see
	// whether anything of the window remains past it.
	anchor := start.AddDate(0, int(months), 0)
	if anchor.After(end) {
		months--
		anchor = start.AddDate(0, int(months), 0)
	}
	if anchor.Before(end) {
		months++
	}
	if months < 1 {
		months = 1
	}
	return months
}

// ComputeAmounts prices the window at rate x units, then applies discount
// and tax: total = subtotal - discount + tax. A discount larger than the
// charge is a validation error, not a negative total.
func ComputeAmounts(rateCents int64, period domain.RatePeriod, start, end time.Time, discountCents, taxCents int64) (Amounts, error) {
	if rateCents <= 0 {
		return Amounts{}, domain.NewValidationError("rate must be positive")
	}
	if discountCents < 0 || taxCents < 0 {
		return Amounts{}, domain.NewValidationError("discount and tax must not be negative")
	}

	units, err := BillingUnits(period, start, end)
	if err != nil {
		return Amounts{}, err
	}

	subtotal := rateCents * units
	total := subtotal - discountCents + taxCents
	if total < 0 {
		return Amounts{}, domain.NewValidationError("discount exceeds charge")
	}

	return Amounts{Units: units, SubtotalCents: subtotal, TotalCents: total}, nil
}

// ApplyPayment records a payment on the booking ledger and recomputes the
// pending amount. Non-positive amounts and overpayment are rejected
// without touching the booking; overpayment is never clamped.
func ApplyPayment(b *domain.Booking, amountCents int64) error {
	if amountCents <= 0 {
		return domain.NewValidationError("payment amount must be positive")
	}
	if b.PaidCents+amountCents > b.TotalCents {
		return domain.NewValidationError("payment of %d cents would exceed total of %d cents", amountCents, b.TotalCents)
	}
	b.PaidCents += amountCents
	RecomputePending(b)
	return nil
}

// RecomputePending restores the ledger invariant pending = total - paid.
// Idempotent: calling it twice without an intervening mutation changes
// nothing.
func RecomputePending(b *domain.Booking) {
	b.PendingCents = b.TotalCents - b.PaidCents
}

// Reprice recomputes subtotal and total for the booking's effective window
// using its snapshotted rate, preserving payments already recorded. Used
// when completion changes the effective end date.
func Reprice(b *domain.Booking) error {
	amounts, err := ComputeAmounts(b.RateCents, b.RatePeriod, b.StartDate, b.EffectiveEndDate(), b.DiscountCents, b.TaxCents)
	if err != nil {
		return err
	}
	// An early return can drop the total below what was already paid. The
	// resulting negative pending amount is a credit left on the ledger for
	// manual reconciliation, not an error.
	b.SubtotalCents = amounts.SubtotalCents
	b.TotalCents = amounts.TotalCents
	RecomputePending(b)
	return nil
}
