package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/repository"
)

// mockStore satisfies repository.Store. WithinTx hands the same store
// back to the callback, so expectations cover transactional calls too.
type mockStore struct {
	users         *MockUserRepo
	bikes         *MockBikeRepo
	wallets       *MockWalletRepo
	subscriptions *MockSubscriptionRepo
	reservations  *MockReservationRepo
	rentals       *MockRentalRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		users:         new(MockUserRepo),
		bikes:         new(MockBikeRepo),
		wallets:       new(MockWalletRepo),
		subscriptions: new(MockSubscriptionRepo),
		reservations:  new(MockReservationRepo),
		rentals:       new(MockRentalRepo),
	}
}

func (s *mockStore) Users() repository.UserRepository                 { return s.users }
func (s *mockStore) Bikes() repository.BikeRepository                 { return s.bikes }
func (s *mockStore) Wallets() repository.WalletRepository             { return s.wallets }
func (s *mockStore) Subscriptions() repository.SubscriptionRepository { return s.subscriptions }
func (s *mockStore) Reservations() repository.ReservationRepository   { return s.reservations }
func (s *mockStore) Rentals() repository.RentalRepository             { return s.rentals }

func (s *mockStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return fn(s)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockBikeRepo
type MockBikeRepo struct {
	mock.Mock
}

func (m *MockBikeRepo) GetByID(ctx context.Context, id string) (*domain.Bike, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bike), args.Error(1)
}
func (m *MockBikeRepo) TransitionStatus(ctx context.Context, id string, from, to domain.BikeStatus, at time.Time) (bool, error) {
	args := m.Called(ctx, id, from, to, at)
	return args.Bool(0), args.Error(1)
}

// MockWalletRepo
type MockWalletRepo struct {
	mock.Mock
}

func (m *MockWalletRepo) FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) CreateForUser(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) DecreaseBalance(ctx context.Context, in domain.DecreaseBalanceInput) (*domain.Wallet, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) IncreaseBalance(ctx context.Context, in domain.IncreaseBalanceInput) (*domain.Wallet, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}
func (m *MockWalletRepo) ListTransactions(ctx context.Context, walletID string, page, pageSize int) ([]domain.WalletTransaction, int, error) {
	args := m.Called(ctx, walletID, page, pageSize)
	return args.Get(0).([]domain.WalletTransaction), args.Int(1), args.Error(2)
}

// MockSubscriptionRepo
type MockSubscriptionRepo struct {
	mock.Mock
}

func (m *MockSubscriptionRepo) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionRepo) FindCurrentForUser(ctx context.Context, userID string, statuses []domain.SubscriptionStatus) (*domain.Subscription, error) {
	args := m.Called(ctx, userID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionRepo) CreatePending(ctx context.Context, sub *domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}
func (m *MockSubscriptionRepo) ActivateIfPending(ctx context.Context, id string, activatedAt, expiresAt time.Time) (*domain.Subscription, error) {
	args := m.Called(ctx, id, activatedAt, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionRepo) IncrementUsageIfCount(ctx context.Context, id string, expectedCount, amount int, allowed []domain.SubscriptionStatus) (*domain.Subscription, error) {
	args := m.Called(ctx, id, expectedCount, amount, allowed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockSubscriptionRepo) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Subscription, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Subscription), args.Error(1)
}
func (m *MockSubscriptionRepo) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]domain.Subscription, int, error) {
	args := m.Called(ctx, userID, page, pageSize)
	return args.Get(0).([]domain.Subscription), args.Int(1), args.Error(2)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockReservationRepo) FindByID(ctx context.Context, id string) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ActivateIfPending(ctx context.Context, id string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) ExpireActive(ctx context.Context, id string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) ExpireIfPending(ctx context.Context, id string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) CancelIfCurrent(ctx context.Context, id string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockRentalRepo
type MockRentalRepo struct {
	mock.Mock
}

func (m *MockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *MockRentalRepo) GetByIDForUser(ctx context.Context, userID, rentalID string) (*domain.Rental, error) {
	args := m.Called(ctx, userID, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) FindActiveByUser(ctx context.Context, userID string) (*domain.Rental, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) FindActiveByBike(ctx context.Context, bikeID string) (*domain.Rental, error) {
	args := m.Called(ctx, bikeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) StartReserved(ctx context.Context, rentalID string, startTime time.Time) (bool, error) {
	args := m.Called(ctx, rentalID, startTime)
	return args.Bool(0), args.Error(1)
}
func (m *MockRentalRepo) CancelReserved(ctx context.Context, rentalID string, at time.Time) (bool, error) {
	args := m.Called(ctx, rentalID, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockRentalRepo) UpdateOnEnd(ctx context.Context, in repository.EndRentalUpdate) (*domain.Rental, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *MockRentalRepo) ListByUser(ctx context.Context, userID string, status string, page, pageSize int) ([]domain.Rental, int, error) {
	args := m.Called(ctx, userID, status, page, pageSize)
	return args.Get(0).([]domain.Rental), args.Int(1), args.Error(2)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(toEmail, fullName string) error {
	args := m.Called(toEmail, fullName)
	return args.Error(0)
}
func (m *MockEmailService) SendRentalReceipt(toEmail, fullName string, rental *domain.Rental) error {
	args := m.Called(toEmail, fullName, rental)
	return args.Error(0)
}
func (m *MockEmailService) SendSubscriptionCreated(toEmail, fullName, packageName string) error {
	args := m.Called(toEmail, fullName, packageName)
	return args.Error(0)
}
