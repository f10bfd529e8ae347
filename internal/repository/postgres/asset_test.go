package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"fleetrent-backend/internal/domain"
)

var assetRowColumns = []string{
	"id", "brand", "model", "year", "serial_number", "type",
	"hourly_rate_cents", "daily_rate_cents", "weekly_rate_cents", "monthly_rate_cents",
	"status", "is_active", "current_hours", "current_mileage",
	"next_maintenance_date", "next_maintenance_hours", "version", "created_on", "updated_on",
}

func sampleAsset() *domain.Asset {
	return &domain.Asset{
		ID:             7,
		Brand:          "Kubota",
		Model:          "KX040",
		Year:           2023,
		SerialNumber:   "KX040-0007",
		Type:           "EXCAVATOR",
		DailyRateCents: 10000,
		Status:         domain.AssetStatusAvailable,
		IsActive:       true,
		CurrentHours:   120,
		Version:        3,
		CreatedOn:      time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		UpdatedOn:      time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
	}
}

func assetRow(a *domain.Asset) []driverValue {
	return []driverValue{
		a.ID, a.Brand, a.Model, a.Year, a.SerialNumber, a.Type,
		a.HourlyRateCents, a.DailyRateCents, a.WeeklyRateCents, a.MonthlyRateCents,
		string(a.Status), a.IsActive, a.CurrentHours, a.CurrentMileage,
		a.NextMaintenanceDate, a.NextMaintenanceHours, a.Version, a.CreatedOn, a.UpdatedOn,
	}
}

func TestAssetRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewAssetRepository(db)
	ctx := context.Background()

	a := sampleAsset()
	a.ID = 0
	a.Version = 0

	mock.ExpectQuery("INSERT INTO assets").
		WithArgs(a.Brand, a.Model, a.Year, a.SerialNumber, a.Type,
			a.HourlyRateCents, a.DailyRateCents, a.WeeklyRateCents, a.MonthlyRateCents,
			string(a.Status), a.IsActive, a.CurrentHours, a.CurrentMileage,
			a.NextMaintenanceDate, a.NextMaintenanceHours, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow(7, 1))

	err = repo.Create(ctx, a)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), a.ID)
	assert.Equal(t, int64(1), a.Version)
}

func TestAssetRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewAssetRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		a := sampleAsset()
		mock.ExpectQuery("SELECT (.+) FROM assets WHERE id").
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(assetRowColumns).AddRow(assetRow(a)...))

		got, err := repo.GetByID(ctx, 7)
		assert.NoError(t, err)
		assert.Equal(t, "Kubota", got.Brand)
		assert.Equal(t, int64(3), got.Version)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM assets WHERE id").
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(assetRowColumns))

		_, err := repo.GetByID(ctx, 404)
		assert.True(t, domain.IsNotFound(err))
	})
}

func TestAssetRepository_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewAssetRepository(db)
	ctx := context.Background()

	t.Run("VersionMatches", func(t *testing.T) {
		a := sampleAsset()
		mock.ExpectExec("UPDATE assets SET").
			WithArgs(a.Brand, a.Model, a.Year, a.SerialNumber, a.Type,
				a.HourlyRateCents, a.DailyRateCents, a.WeeklyRateCents, a.MonthlyRateCents,
				string(a.Status), a.IsActive, a.CurrentHours, a.CurrentMileage,
				a.NextMaintenanceDate, a.NextMaintenanceHours,
				sqlmock.AnyArg(), a.ID, int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(ctx, a)
		assert.NoError(t, err)
		assert.Equal(t, int64(4), a.Version)
	})

	t.Run("StaleVersionConflicts", func(t *testing.T) {
		a := sampleAsset()
		a.Version = 2 // another writer already bumped the row to 3
		mock.ExpectExec("UPDATE assets SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(ctx, a)
		assert.True(t, domain.IsConflict(err))
		assert.Equal(t, int64(2), a.Version)
	})
}
