package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, fullName, email, password string) (*domain.User, string, string, error) {
	args := m.Called(ctx, fullName, email, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*domain.User), args.String(1), args.String(2), args.Error(3)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.String(1), args.Error(2)
}
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) StartRental(ctx context.Context, userID string, in service.StartRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) EndRental(ctx context.Context, userID string, in service.EndRentalInput) (*domain.Rental, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) GetMyRental(ctx context.Context, userID, rentalID string) (*domain.Rental, error) {
	args := m.Called(ctx, userID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalService) ListMyRentals(ctx context.Context, userID, status string, page, pageSize int) ([]domain.Rental, int, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Int(1), args.Error(2)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetMyWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletService) TopUp(ctx context.Context, userID string, amount int64, reference string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID, amount, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletService) ListMyTransactions(ctx context.Context, userID string, page, pageSize int) ([]domain.WalletTransaction, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Int(1), args.Error(2)
}

type MockSubscriptionService struct {
	mock.Mock
}

func (m *MockSubscriptionService) Create(ctx context.Context, userID string, in service.CreateSubscriptionInput) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionService) Activate(ctx context.Context, userID, subscriptionID string, now time.Time) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, subscriptionID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionService) UseOne(ctx context.Context, userID, subscriptionID string, now time.Time) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, subscriptionID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]domain.Subscription, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Subscription), args.Int(1), args.Error(2)
}
func (m *MockSubscriptionService) ActivateDuePending(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}
func (m *MockSubscriptionService) MarkExpiredNow(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Reserve(ctx context.Context, userID string, in service.ReserveBikeInput) (*domain.Reservation, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationService) Confirm(ctx context.Context, userID, reservationID string, at time.Time) (*domain.Rental, error) {
	args := m.Called(ctx, userID, reservationID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockReservationService) Cancel(ctx context.Context, userID, reservationID string, at time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, userID, reservationID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationService) ExpireHolds(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}
