package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type RatePeriod string

const (
	RatePeriodHourly  RatePeriod = "HOURLY"
	RatePeriodDaily   RatePeriod = "DAILY"
	RatePeriodWeekly  RatePeriod = "WEEKLY"
	RatePeriodMonthly RatePeriod = "MONTHLY"
)

type Booking struct {
	ID         int64  `json:"id"`
	Reference  string `json:"reference"` // uuid handed to document consumers
	AssetID    int64  `json:"asset_id"`
	CustomerID int64  `json:"customer_id"`

	StartDate           time.Time  `json:"start_date"`
	EstimatedReturnDate time.Time  `json:"estimated_return_date"`
	ActualReturnDate    *time.Time `json:"actual_return_date,omitempty"`

	Status BookingStatus `json:"status"`

	// Price snapshot fields, captured at creation. All cost calculations
	// use these, not live asset rates.
	RateCents  int64      `json:"rate_cents"`
	RatePeriod RatePeriod `json:"rate_period"`

	DepositCents    int64 `json:"deposit_cents"`
	SubtotalCents   int64 `json:"subtotal_cents"`
	TaxCents        int64 `json:"tax_cents"`
	DiscountCents   int64 `json:"discount_cents"`
	TotalCents      int64 `json:"total_cents"`
	PaidCents       int64 `json:"paid_cents"`
	PendingCents    int64 `json:"pending_cents"`
	DepositReturned bool  `json:"deposit_returned"`

	PickupLocation string `json:"pickup_location"`
	ReturnLocation string `json:"return_location"`

	InitialHours     int64  `json:"initial_hours"`
	FinalHours       int64  `json:"final_hours"`
	InitialMileage   int64  `json:"initial_mileage"`
	FinalMileage     int64  `json:"final_mileage"`
	InitialCondition string `json:"initial_condition"`
	FinalCondition   string `json:"final_condition"`

	CancellationReason string `json:"cancellation_reason"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// BookingDetails is the display join: the booking plus the referenced
// asset and customer rows.
type BookingDetails struct {
	Booking
	Asset    *Asset    `json:"asset,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Back-to-back windows (e1 == s2) do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// EffectiveEndDate is the actual return date if recorded, else the
// estimated return date. Duration math always uses this.
func (b *Booking) EffectiveEndDate() time.Time {
	if b.ActualReturnDate != nil {
		return *b.ActualReturnDate
	}
	return b.EstimatedReturnDate
}

// DurationInDays is the whole-day length of the effective window,
// rounding partial days up. Computed on read, never stored.
func (b *Booking) DurationInDays() int64 {
	d := b.EffectiveEndDate().Sub(b.StartDate)
	if d <= 0 {
		return 0
	}
	days := int64(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Blocking reports whether this booking occupies its asset for
// availability purposes. Pending and Active block equally.
func (b *Booking) Blocking() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusActive
}

// Terminal reports whether the booking is in a final state. No transition
// may leave a terminal state.
func (b *Booking) Terminal() bool {
	return b.Status == BookingStatusCompleted || b.Status == BookingStatusCancelled
}

// Overdue reports whether the booking is past its estimated return with no
// recorded return, as of now. Derived on read; nothing persists this and
// nothing transitions on it.
func (b *Booking) Overdue(now time.Time) bool {
	if b.Status != BookingStatusActive && b.Status != BookingStatusPending {
		return false
	}
	return b.ActualReturnDate == nil && b.EstimatedReturnDate.Before(now)
}

// BookingFilter narrows paged booking listings.
type BookingFilter struct {
	CustomerID int64
	AssetID    int64
	Status     BookingStatus
	From       *time.Time
	To         *time.Time
}
