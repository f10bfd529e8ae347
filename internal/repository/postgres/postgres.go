package postgres

import (
	"context"
	"database/sql"

	"fleetrent-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can
// run standalone or inside a transaction unchanged.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db            *sql.DB
	assets        repository.AssetRepository
	bookings      repository.BookingRepository
	customers     repository.CustomerRepository
	notifications repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db)
}

func newStore(db *sql.DB, q DBTX) *Store {
	return &Store{
		db:            db,
		assets:        NewAssetRepository(q),
		bookings:      NewBookingRepository(q),
		customers:     NewCustomerRepository(q),
		notifications: NewNotificationRepository(q),
	}
}

func (s *Store) Assets() repository.AssetRepository               { return s.assets }
func (s *Store) Bookings() repository.BookingRepository           { return s.bookings }
func (s *Store) Customers() repository.CustomerRepository         { return s.customers }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }

// InTx runs fn against a store bound to one serializable transaction.
// fn returning nil commits; an error rolls back. Serializable isolation is
// what forces the second of two racing check-and-reserve sequences to fail
// instead of double-booking.
func (s *Store) InTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}

	if err := fn(newStore(s.db, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
