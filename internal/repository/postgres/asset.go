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

type assetRepository struct {
	db DBTX
}

func NewAssetRepository(db DBTX) repository.AssetRepository {
	return &assetRepository{db: db}
}

const assetColumns = `id, brand, model, year, serial_number, type,
	hourly_rate_cents, daily_rate_cents, weekly_rate_cents, monthly_rate_cents,
	status, is_active, current_hours, current_mileage,
	next_maintenance_date, next_maintenance_hours, version, created_on, updated_on`

func scanAsset(row interface{ Scan(...any) error }) (*domain.Asset, error) {
	a := &domain.Asset{}
	err := row.Scan(&a.ID, &a.Brand, &a.Model, &a.Year, &a.SerialNumber, &a.Type,
		&a.HourlyRateCents, &a.DailyRateCents, &a.WeeklyRateCents, &a.MonthlyRateCents,
		&a.Status, &a.IsActive, &a.CurrentHours, &a.CurrentMileage,
		&a.NextMaintenanceDate, &a.NextMaintenanceHours, &a.Version, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *assetRepository) Create(ctx context.Context, a *domain.Asset) error {
	query := `INSERT INTO assets (brand, model, year, serial_number, type,
	            hourly_rate_cents, daily_rate_cents, weekly_rate_cents, monthly_rate_cents,
	            status, is_active, current_hours, current_mileage,
	            next_maintenance_date, next_maintenance_hours, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $16)
	          RETURNING id, version`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, a.Brand, a.Model, a.Year, a.SerialNumber, a.Type,
		a.HourlyRateCents, a.DailyRateCents, a.WeeklyRateCents, a.MonthlyRateCents,
		a.Status, a.IsActive, a.CurrentHours, a.CurrentMileage,
		a.NextMaintenanceDate, a.NextMaintenanceHours, now).Scan(&a.ID, &a.Version)
}

func (r *assetRepository) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	a, err := scanAsset(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("asset %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Update writes the asset only if the caller's version is still current.
// A stale version means another writer got there first; the caller must
// re-read and decide, so this surfaces as a conflict.
func (r *assetRepository) Update(ctx context.Context, a *domain.Asset) error {
	query := `UPDATE assets SET brand=$1, model=$2, year=$3, serial_number=$4, type=$5,
	            hourly_rate_cents=$6, daily_rate_cents=$7, weekly_rate_cents=$8, monthly_rate_cents=$9,
	            status=$10, is_active=$11, current_hours=$12, current_mileage=$13,
	            next_maintenance_date=$14, next_maintenance_hours=$15,
	            version=version+1, updated_on=$16
	          WHERE id=$17 AND version=$18`
	res, err := r.db.ExecContext(ctx, query, a.Brand, a.Model, a.Year, a.SerialNumber, a.Type,
		a.HourlyRateCents, a.DailyRateCents, a.WeeklyRateCents, a.MonthlyRateCents,
		a.Status, a.IsActive, a.CurrentHours, a.CurrentMileage,
		a.NextMaintenanceDate, a.NextMaintenanceHours,
		time.Now(), a.ID, a.Version)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewConflictError("asset %d was modified concurrently", a.ID)
	}
	a.Version++
	return nil
}

func (r *assetRepository) List(ctx context.Context, filter domain.AssetFilter, page, pageSize int64) ([]domain.Asset, int64, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE 1=1`
	args := []any{}
	argIdx := 1

	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argIdx)
		args = append(args, filter.Type)
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.ActiveOnly {
		query += " AND is_active"
	}

	var count int64
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, *a)
	}
	return assets, count, rows.Err()
}

func (r *assetRepository) ListNeedingMaintenance(ctx context.Context, asOf time.Time) ([]domain.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets
	          WHERE is_active AND status != 'RETIRED'
	            AND ((next_maintenance_date IS NOT NULL AND next_maintenance_date <= $1)
	              OR (next_maintenance_hours > 0 AND current_hours >= next_maintenance_hours))
	          ORDER BY next_maintenance_date NULLS LAST`
	rows, err := r.db.QueryContext(ctx, query, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}
