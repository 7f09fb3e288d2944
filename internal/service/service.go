package service

import (
	"context"
	"time"

	"bikeshare-backend/internal/domain"
)

type StartRentalInput struct {
	BikeID         string
	StationID      string
	SubscriptionID *string
	At             time.Time
}

type EndRentalInput struct {
	RentalID     string
	EndStationID string
	At           time.Time
}

type ReserveBikeInput struct {
	BikeID         string
	StationID      string
	SubscriptionID *string
	At             time.Time
}

type CreateSubscriptionInput struct {
	PackageName string
	MaxUsages   *int // nil means unlimited
	Price       int64
}

type AuthService interface {
	Signup(ctx context.Context, fullName, email, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, string, error)
}

type RentalService interface {
	StartRental(ctx context.Context, userID string, in StartRentalInput) (*domain.Rental, error)
	EndRental(ctx context.Context, userID string, in EndRentalInput) (*domain.Rental, error)
	GetMyRental(ctx context.Context, userID, rentalID string) (*domain.Rental, error)
	ListMyRentals(ctx context.Context, userID, status string, page, pageSize int) ([]domain.Rental, int, error)
}

type WalletService interface {
	GetMyWallet(ctx context.Context, userID string) (*domain.Wallet, error)
	TopUp(ctx context.Context, userID string, amount int64, reference string) (*domain.Wallet, error)
	ListMyTransactions(ctx context.Context, userID string, page, pageSize int) ([]domain.WalletTransaction, int, error)
}

type SubscriptionService interface {
	Create(ctx context.Context, userID string, in CreateSubscriptionInput) (*domain.Subscription, error)
	Activate(ctx context.Context, userID, subscriptionID string, now time.Time) (*domain.Subscription, error)
	UseOne(ctx context.Context, userID, subscriptionID string, now time.Time) (*domain.Subscription, error)
	ListMine(ctx context.Context, userID string, page, pageSize int) ([]domain.Subscription, int, error)
	ActivateDuePending(ctx context.Context, now time.Time) (int, error)
	MarkExpiredNow(ctx context.Context, now time.Time) (int64, error)
}

type ReservationService interface {
	Reserve(ctx context.Context, userID string, in ReserveBikeInput) (*domain.Reservation, error)
	Confirm(ctx context.Context, userID, reservationID string, at time.Time) (*domain.Rental, error)
	Cancel(ctx context.Context, userID, reservationID string, at time.Time) (*domain.Reservation, error)
	ExpireHolds(ctx context.Context, now time.Time) (int, error)
}

type EmailService interface {
	SendWelcome(toEmail, fullName string) error
	SendRentalReceipt(toEmail, fullName string, rental *domain.Rental) error
	SendSubscriptionCreated(toEmail, fullName, packageName string) error
}
