package service

import (
	"context"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

type notificationService struct {
	store repository.Store
}

func NewNotificationService(store repository.Store) NotificationService {
	return &notificationService{store: store}
}

func (s *notificationService) GetNotifications(ctx context.Context, customerID int64, page, pageSize int64) ([]domain.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	notes, total, err := s.store.Notifications().List(ctx, customerID, page, pageSize)
	if err != nil {
		return nil, 0, serviceError("list notifications", err)
	}
	return notes, total, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, customerID, notificationID int64) error {
	if err := s.store.Notifications().MarkAsRead(ctx, notificationID, customerID); err != nil {
		return serviceError("mark notification read", err)
	}
	return nil
}
