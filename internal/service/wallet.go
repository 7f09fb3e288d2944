package service

import (
	"context"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/repository"
)

type walletService struct {
	store repository.Store
}

func NewWalletService(store repository.Store) WalletService {
	return &walletService{store: store}
}

func (s *walletService) GetMyWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	wallet, err := s.store.Wallets().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, &domain.UserWalletNotFoundError{UserID: userID}
	}
	return wallet, nil
}

// TopUp credits the wallet. The reference doubles as the idempotency hash
// so a retried payment callback lands a single credit.
func (s *walletService) TopUp(ctx context.Context, userID string, amount int64, reference string) (*domain.Wallet, error) {
	return s.store.Wallets().IncreaseBalance(ctx, domain.IncreaseBalanceInput{
		UserID:      userID,
		Amount:      amount,
		Description: "Wallet top-up",
		Hash:        reference,
		Type:        domain.TransactionTypeDeposit,
	})
}

func (s *walletService) ListMyTransactions(ctx context.Context, userID string, page, pageSize int) ([]domain.WalletTransaction, int, error) {
	wallet, err := s.GetMyWallet(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return s.store.Wallets().ListTransactions(ctx, wallet.ID, page, pageSize)
}
