package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/repository"
)

type MockAssetRepo struct {
	mock.Mock
}

func (m *MockAssetRepo) Create(ctx context.Context, a *domain.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepo) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepo) Update(ctx context.Context, a *domain.Asset) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssetRepo) List(ctx context.Context, filter domain.AssetFilter, page, pageSize int64) ([]domain.Asset, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Asset), args.Get(1).(int64), args.Error(2)
}

func (m *MockAssetRepo) ListNeedingMaintenance(ctx context.Context, asOf time.Time) ([]domain.Asset, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Asset), args.Error(1)
}

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) GetByIDWithDetails(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetails), args.Error(1)
}

func (m *MockBookingRepo) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookingRepo) ListConflicts(ctx context.Context, assetID int64, start, end time.Time, excludeID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, assetID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) List(ctx context.Context, filter domain.BookingFilter, page, pageSize int64) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) ListUpcomingReturns(ctx context.Context, asOf time.Time, days int) ([]domain.Booking, error) {
	args := m.Called(ctx, asOf, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepo) RevenueBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepo) OutstandingPendingTotal(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, customerID int64, page, pageSize int64) ([]domain.Notification, int64, error) {
	args := m.Called(ctx, customerID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, customerID int64) error {
	args := m.Called(ctx, id, customerID)
	return args.Error(0)
}

// MockStore bundles the mock repositories. InTx simply runs fn against the
// same store, so transactional orchestration is exercised without a
// database.
type MockStore struct {
	assets        *MockAssetRepo
	bookings      *MockBookingRepo
	customers     *MockCustomerRepo
	notifications *MockNotificationRepo
}

func NewMockStore() *MockStore {
	return &MockStore{
		assets:        new(MockAssetRepo),
		bookings:      new(MockBookingRepo),
		customers:     new(MockCustomerRepo),
		notifications: new(MockNotificationRepo),
	}
}

func (s *MockStore) Assets() repository.AssetRepository               { return s.assets }
func (s *MockStore) Bookings() repository.BookingRepository           { return s.bookings }
func (s *MockStore) Customers() repository.CustomerRepository         { return s.customers }
func (s *MockStore) Notifications() repository.NotificationRepository { return s.notifications }

func (s *MockStore) InTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

func (s *MockStore) AssertExpectations(t mock.TestingT) {
	s.assets.AssertExpectations(t)
	s.bookings.AssertExpectations(t)
	s.customers.AssertExpectations(t)
	s.notifications.AssertExpectations(t)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendBookingConfirmation(ctx context.Context, toEmail, toName, assetName string, b *domain.Booking) error {
	args := m.Called(ctx, toEmail, toName, assetName, b)
	return args.Error(0)
}

func (m *MockEmailService) SendBookingCompletion(ctx context.Context, toEmail, toName, assetName string, b *domain.Booking) error {
	args := m.Called(ctx, toEmail, toName, assetName, b)
	return args.Error(0)
}

func (m *MockEmailService) SendBookingCancellation(ctx context.Context, toEmail, toName, assetName, reason string) error {
	args := m.Called(ctx, toEmail, toName, assetName, reason)
	return args.Error(0)
}

func (m *MockEmailService) SendReturnReminder(ctx context.Context, toEmail, toName, assetName string, dueDate time.Time) error {
	args := m.Called(ctx, toEmail, toName, assetName, dueDate)
	return args.Error(0)
}

func (m *MockEmailService) SendOverdueNotice(ctx context.Context, toEmail, toName, assetName string, dueDate time.Time) error {
	args := m.Called(ctx, toEmail, toName, assetName, dueDate)
	return args.Error(0)
}
