package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bikeshare-backend/internal/repository"

	"github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can
// run standalone or inside a surrounding transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db            *sql.DB
	users         repository.UserRepository
	bikes         repository.BikeRepository
	wallets       repository.WalletRepository
	subscriptions repository.SubscriptionRepository
	reservations  repository.ReservationRepository
	rentals       repository.RentalRepository
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return bindStore(db, db)
}

func bindStore(db *sql.DB, q DBTX) *Store {
	return &Store{
		db:            db,
		users:         NewUserRepository(q),
		bikes:         NewBikeRepository(q),
		wallets:       NewWalletRepository(q),
		subscriptions: NewSubscriptionRepository(q),
		reservations:  NewReservationRepository(q),
		rentals:       NewRentalRepository(q),
	}
}

func (s *Store) Users() repository.UserRepository                 { return s.users }
func (s *Store) Bikes() repository.BikeRepository                 { return s.bikes }
func (s *Store) Wallets() repository.WalletRepository             { return s.wallets }
func (s *Store) Subscriptions() repository.SubscriptionRepository { return s.subscriptions }
func (s *Store) Reservations() repository.ReservationRepository   { return s.reservations }
func (s *Store) Rentals() repository.RentalRepository             { return s.rentals }

// WithinTx runs fn against a Store bound to one database transaction.
// Any error from fn rolls back every write made through that Store.
func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(bindStore(s.db, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation, optionally on a specific named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}
