package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, reference, asset_id, customer_id,
	start_date, estimated_return_date, actual_return_date, status,
	rate_cents, rate_period, deposit_cents, subtotal_cents, tax_cents, discount_cents,
	total_cents, paid_cents, pending_cents, deposit_returned,
	pickup_location, return_location,
	initial_hours, final_hours, initial_mileage, final_mileage,
	initial_condition, final_condition, cancellation_reason, created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.Reference, &b.AssetID, &b.CustomerID,
		&b.StartDate, &b.EstimatedReturnDate, &b.ActualReturnDate, &b.Status,
		&b.RateCents, &b.RatePeriod, &b.DepositCents, &b.SubtotalCents, &b.TaxCents, &b.DiscountCents,
		&b.TotalCents, &b.PaidCents, &b.PendingCents, &b.DepositReturned,
		&b.PickupLocation, &b.ReturnLocation,
		&b.InitialHours, &b.FinalHours, &b.InitialMileage, &b.FinalMileage,
		&b.InitialCondition, &b.FinalCondition, &b.CancellationReason, &b.CreatedOn, &b.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (reference, asset_id, customer_id,
	            start_date, estimated_return_date, status,
	            rate_cents, rate_period, deposit_cents, subtotal_cents, tax_cents, discount_cents,
	            total_cents, paid_cents, pending_cents, deposit_returned,
	            pickup_location, return_location,
	            initial_hours, initial_mileage, initial_condition, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
	                  $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $22)
	          RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, b.Reference, b.AssetID, b.CustomerID,
		b.StartDate, b.EstimatedReturnDate, b.Status,
		b.RateCents, b.RatePeriod, b.DepositCents, b.SubtotalCents, b.TaxCents, b.DiscountCents,
		b.TotalCents, b.PaidCents, b.PendingCents, b.DepositReturned,
		b.PickupLocation, b.ReturnLocation,
		b.InitialHours, b.InitialMileage, b.InitialCondition, now).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("booking %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) GetByIDWithDetails(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	query := `SELECT b.id, b.reference, b.asset_id, b.customer_id,
	            b.start_date, b.estimated_return_date, b.actual_return_date, b.status,
	            b.rate_cents, b.rate_period, b.deposit_cents, b.subtotal_cents, b.tax_cents, b.discount_cents,
	            b.total_cents, b.paid_cents, b.pending_cents, b.deposit_returned,
	            b.pickup_location, b.return_location,
	            b.initial_hours, b.final_hours, b.initial_mileage, b.final_mileage,
	            b.initial_condition, b.final_condition, b.cancellation_reason, b.created_on, b.updated_on,
	            a.id, a.brand, a.model, a.year, a.serial_number, a.type, a.status,
	            c.id, c.name, c.email, c.phone_number
	          FROM bookings b
	          JOIN assets a ON a.id = b.asset_id
	          JOIN customers c ON c.id = b.customer_id
	          WHERE b.id = $1`

	d := &domain.BookingDetails{Asset: &domain.Asset{}, Customer: &domain.Customer{}}
	b := &d.Booking
	a := d.Asset
	c := d.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Reference, &b.AssetID, &b.CustomerID,
		&b.StartDate, &b.EstimatedReturnDate, &b.ActualReturnDate, &b.Status,
		&b.RateCents, &b.RatePeriod, &b.DepositCents, &b.SubtotalCents, &b.TaxCents, &b.DiscountCents,
		&b.TotalCents, &b.PaidCents, &b.PendingCents, &b.DepositReturned,
		&b.PickupLocation, &b.ReturnLocation,
		&b.InitialHours, &b.FinalHours, &b.InitialMileage, &b.FinalMileage,
		&b.InitialCondition, &b.FinalCondition, &b.CancellationReason, &b.CreatedOn, &b.UpdatedOn,
		&a.ID, &a.Brand, &a.Model, &a.Year, &a.SerialNumber, &a.Type, &a.Status,
		&c.ID, &c.Name, &c.Email, &c.PhoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("booking %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET
	            start_date=$1, estimated_return_date=$2, actual_return_date=$3, status=$4,
	            subtotal_cents=$5, tax_cents=$6, discount_cents=$7,
	            total_cents=$8, paid_cents=$9, pending_cents=$10, deposit_returned=$11,
	            final_hours=$12, final_mileage=$13, final_condition=$14,
	            cancellation_reason=$15, updated_on=$16
	          WHERE id=$17`
	_, err := r.db.ExecContext(ctx, query,
		b.StartDate, b.EstimatedReturnDate, b.ActualReturnDate, b.Status,
		b.SubtotalCents, b.TaxCents, b.DiscountCents,
		b.TotalCents, b.PaidCents, b.PendingCents, b.DepositReturned,
		b.FinalHours, b.FinalMileage, b.FinalCondition,
		b.CancellationReason, time.Now(), b.ID)
	return err
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return err
}

// ListConflicts implements the half-open overlap predicate in SQL:
// [s1,e1) and [s2,e2) intersect iff s1 < e2 AND s2 < e1. Only Pending and
// Active bookings block; both block equally.
func (r *bookingRepository) ListConflicts(ctx context.Context, assetID int64, start, end time.Time, excludeID int64) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE asset_id = $1
	            AND status IN ('PENDING', 'ACTIVE')
	            AND start_date < $3
	            AND $2 < estimated_return_date
	            AND id != $4
	          ORDER BY start_date`
	rows, err := r.db.QueryContext(ctx, query, assetID, start, end, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *bookingRepository) List(ctx context.Context, filter domain.BookingFilter, page, pageSize int64) ([]domain.Booking, int64, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []any{}
	argIdx := 1

	if filter.CustomerID != 0 {
		query += fmt.Sprintf(" AND customer_id = $%d", argIdx)
		args = append(args, filter.CustomerID)
		argIdx++
	}
	if filter.AssetID != 0 {
		query += fmt.Sprintf(" AND asset_id = $%d", argIdx)
		args = append(args, filter.AssetID)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND start_date >= $%d", argIdx)
		args = append(args, *filter.From)
		argIdx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND start_date < $%d", argIdx)
		args = append(args, *filter.To)
		argIdx++
	}

	var count int64
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

// ListOverdue selects bookings whose estimated return has passed with no
// recorded return. Overdue is computed here on read; nothing stores it.
func (r *bookingRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE status IN ('PENDING', 'ACTIVE')
	            AND actual_return_date IS NULL
	            AND estimated_return_date < $1
	          ORDER BY estimated_return_date`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *bookingRepository) ListUpcomingReturns(ctx context.Context, asOf time.Time, days int) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE status IN ('PENDING', 'ACTIVE')
	            AND actual_return_date IS NULL
	            AND estimated_return_date >= $1
	            AND estimated_return_date < $2
	          ORDER BY estimated_return_date`
	rows, err := r.db.QueryContext(ctx, query, asOf, asOf.AddDate(0, 0, days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// RevenueBetween sums completed bookings' totals over their actual return
// dates in [from, to).
func (r *bookingRepository) RevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	query := `SELECT COALESCE(SUM(total_cents), 0) FROM bookings
	          WHERE status = 'COMPLETED'
	            AND actual_return_date >= $1 AND actual_return_date < $2`
	var total int64
	err := r.db.QueryRowContext(ctx, query, from, to).Scan(&total)
	return total, err
}

func (r *bookingRepository) OutstandingPendingTotal(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(pending_cents), 0) FROM bookings
	          WHERE status IN ('PENDING', 'ACTIVE') AND pending_cents > 0`
	var total int64
	err := r.db.QueryRowContext(ctx, query).Scan(&total)
	return total, err
}

func collectBookings(rows *sql.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
