package repository

import (
	"context"
	"time"

	"bikeshare-backend/internal/domain"
)

// EndRentalUpdate carries the rental completion written once pricing is
// settled.
type EndRentalUpdate struct {
	RentalID        string
	EndStationID    string
	EndTime         time.Time
	DurationMinutes int
	TotalPrice      int64
	NewStatus       domain.RentalStatus
}

// Store bundles every repository behind one handle. WithinTx runs fn
// against a Store bound to a single database transaction; returning an
// error rolls back every write made through that Store.
type Store interface {
	Users() UserRepository
	Bikes() BikeRepository
	Wallets() WalletRepository
	Subscriptions() SubscriptionRepository
	Reservations() ReservationRepository
	Rentals() RentalRepository

	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// BikeRepository mutates bike status only through conditional transitions:
// TransitionStatus succeeds only while the row still carries the expected
// prior status and reports a lost race as (false, nil).
type BikeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Bike, error)
	TransitionStatus(ctx context.Context, id string, from, to domain.BikeStatus, at time.Time) (bool, error)
}

// WalletRepository owns wallet balances and the append-only transaction
// trail. DecreaseBalance is a conditional decrement; an uncovered debit
// returns *domain.InsufficientBalanceError and writes nothing.
type WalletRepository interface {
	FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error)
	CreateForUser(ctx context.Context, userID string) (*domain.Wallet, error)
	DecreaseBalance(ctx context.Context, in domain.DecreaseBalanceInput) (*domain.Wallet, error)
	IncreaseBalance(ctx context.Context, in domain.IncreaseBalanceInput) (*domain.Wallet, error)
	ListTransactions(ctx context.Context, walletID string, page, pageSize int) ([]domain.WalletTransaction, int, error)
}

// SubscriptionRepository applies all usage and activation mutations as
// compare-and-swap updates; a lost race comes back as (nil, nil).
type SubscriptionRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Subscription, error)
	FindCurrentForUser(ctx context.Context, userID string, statuses []domain.SubscriptionStatus) (*domain.Subscription, error)
	CreatePending(ctx context.Context, sub *domain.Subscription) error
	ActivateIfPending(ctx context.Context, id string, activatedAt, expiresAt time.Time) (*domain.Subscription, error)
	IncrementUsageIfCount(ctx context.Context, id string, expectedCount, amount int, allowed []domain.SubscriptionStatus) (*domain.Subscription, error)
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Subscription, error)
	ListForUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Subscription, int, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	ActivateIfPending(ctx context.Context, id string, at time.Time) (bool, error)
	ExpireActive(ctx context.Context, id string, at time.Time) (bool, error)
	ExpireIfPending(ctx context.Context, id string, at time.Time) (bool, error)
	CancelIfCurrent(ctx context.Context, id string, at time.Time) (bool, error)
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error)
}

// RentalRepository enforces the one-active-rental-per-user and per-bike
// invariants with partial unique indexes; Create remaps those constraint
// violations to the matching conflict failures.
type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByIDForUser(ctx context.Context, userID, rentalID string) (*domain.Rental, error)
	FindActiveByUser(ctx context.Context, userID string) (*domain.Rental, error)
	FindActiveByBike(ctx context.Context, bikeID string) (*domain.Rental, error)
	StartReserved(ctx context.Context, rentalID string, startTime time.Time) (bool, error)
	CancelReserved(ctx context.Context, rentalID string, at time.Time) (bool, error)
	UpdateOnEnd(ctx context.Context, in EndRentalUpdate) (*domain.Rental, error)
	ListByUser(ctx context.Context, userID string, status string, page, pageSize int) ([]domain.Rental, int, error)
}
