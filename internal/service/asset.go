package service

import (
	"context"
	"time"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

type assetService struct {
	store repository.Store
}

func NewAssetService(store repository.Store) AssetService {
	return &assetService{store: store}
}

func (s *assetService) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	a, err := s.store.Assets().GetByID(ctx, id)
	if err != nil {
		return nil, serviceError("get asset", err)
	}
	return a, nil
}

func (s *assetService) ListAssets(ctx context.Context, filter domain.AssetFilter, page, pageSize int64) ([]domain.Asset, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	assets, total, err := s.store.Assets().List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, serviceError("list assets", err)
	}
	return assets, total, nil
}

func (s *assetService) ListNeedingMaintenance(ctx context.Context) ([]domain.Asset, error) {
	assets, err := s.store.Assets().ListNeedingMaintenance(ctx, time.Now())
	if err != nil {
		return nil, serviceError("list assets needing maintenance", err)
	}
	return assets, nil
}

func (s *assetService) UpdateAsset(ctx context.Context, asset *domain.Asset) error {
	if asset.DailyRateCents < 0 || asset.HourlyRateCents < 0 || asset.WeeklyRateCents < 0 || asset.MonthlyRateCents < 0 {
		return domain.NewValidationError("rates must not be negative")
	}
	if err := s.store.Assets().Update(ctx, asset); err != nil {
		return serviceError("update asset", err)
	}
	return nil
}
