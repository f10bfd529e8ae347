package domain

import "time"

type AssetStatus string

const (
	AssetStatusAvailable   AssetStatus = "AVAILABLE"
	AssetStatusRented      AssetStatus = "RENTED"
	AssetStatusMaintenance AssetStatus = "MAINTENANCE"
	AssetStatusRetired     AssetStatus = "RETIRED"
)

type Asset struct {
	ID           int64  `json:"id"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Year         int32  `json:"year"`
	SerialNumber string `json:"serial_number"` // plate for vehicles, serial for equipment
	Type         string `json:"type"`

	HourlyRateCents  int64 `json:"hourly_rate_cents"`
	DailyRateCents   int64 `json:"daily_rate_cents"`
	WeeklyRateCents  int64 `json:"weekly_rate_cents"`
	MonthlyRateCents int64 `json:"monthly_rate_cents"`

	Status   AssetStatus `json:"status"`
	IsActive bool        `json:"is_active"`

	CurrentHours   int64 `json:"current_hours"`
	CurrentMileage int64 `json:"current_mileage"`

	NextMaintenanceDate  *time.Time `json:"next_maintenance_date,omitempty"`
	NextMaintenanceHours int64      `json:"next_maintenance_hours"`

	// Version is the optimistic-concurrency token. Every update must carry
	// the version it read; the repository rejects stale writes.
	Version int64 `json:"version"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Rentable reports whether the asset may accept a new booking at all.
// Window availability is a separate check.
func (a *Asset) Rentable() bool {
	if !a.IsActive {
		return false
	}
	return a.Status != AssetStatusMaintenance && a.Status != AssetStatusRetired
}

// RateFor returns the rate-card entry matching the given period.
func (a *Asset) RateFor(period RatePeriod) int64 {
	switch period {
	case RatePeriodHourly:
		return a.HourlyRateCents
	case RatePeriodWeekly:
		return a.WeeklyRateCents
	case RatePeriodMonthly:
		return a.MonthlyRateCents
	default:
		return a.DailyRateCents
	}
}

// AssetFilter narrows asset listings.
type AssetFilter struct {
	Type       string
	Status     AssetStatus
	ActiveOnly bool
}
