package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikeshare-backend/internal/domain"
)

func walletRows(id, userID string, balance int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "balance", "status", "created_at", "updated_at"}).
		AddRow(id, userID, balance, "ACTIVE", now, now)
}

func TestWalletRepository_DecreaseBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewWalletRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM wallets WHERE user_id = \\$1").
			WithArgs("user-1").
			WillReturnRows(walletRows("w-1", "user-1", 50000))
		mock.ExpectExec("UPDATE wallets SET balance = balance - ").
			WithArgs("w-1", int64(10000), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO wallet_transactions").
			WithArgs(sqlmock.AnyArg(), "w-1", int64(10000), int64(0), "Rental r-1 (20 min)", "rental:r-1",
				domain.TransactionTypeDebit, domain.TransactionStatusSuccess, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		wallet, err := repo.DecreaseBalance(ctx, domain.DecreaseBalanceInput{
			UserID:      "user-1",
			Amount:      10000,
			Description: "Rental r-1 (20 min)",
			Hash:        "rental:r-1",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(40000), wallet.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientBalance", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM wallets WHERE user_id = \\$1").
			WithArgs("user-1").
			WillReturnRows(walletRows("w-1", "user-1", 5000))
		// The conditional decrement misses when the balance cannot cover it.
		mock.ExpectExec("UPDATE wallets SET balance = balance - ").
			WithArgs("w-1", int64(10000), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		_, err := repo.DecreaseBalance(ctx, domain.DecreaseBalanceInput{UserID: "user-1", Amount: 10000})
		var insufficient *domain.InsufficientBalanceError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, int64(5000), insufficient.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WalletNotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM wallets WHERE user_id = \\$1").
			WithArgs("user-9").
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "status", "created_at", "updated_at"}))

		_, err := repo.DecreaseBalance(ctx, domain.DecreaseBalanceInput{UserID: "user-9", Amount: 10000})
		var notFound *domain.UserWalletNotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

func TestWalletRepository_IncreaseBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewWalletRepository(db)
	ctx := context.Background()

	t.Run("DepositWithFee", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM wallets WHERE user_id = \\$1").
			WithArgs("user-1").
			WillReturnRows(walletRows("w-1", "user-1", 10000))
		mock.ExpectExec("UPDATE wallets SET balance = balance \\+ ").
			WithArgs("w-1", int64(48000), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO wallet_transactions").
			WithArgs(sqlmock.AnyArg(), "w-1", int64(50000), int64(2000), "Wallet top-up", "pay-cb-1",
				domain.TransactionTypeDeposit, domain.TransactionStatusSuccess, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		wallet, err := repo.IncreaseBalance(ctx, domain.IncreaseBalanceInput{
			UserID:      "user-1",
			Amount:      50000,
			Fee:         2000,
			Description: "Wallet top-up",
			Hash:        "pay-cb-1",
			Type:        domain.TransactionTypeDeposit,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(58000), wallet.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWalletRepository_CreateForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewWalletRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO wallets").
			WithArgs(sqlmock.AnyArg(), "user-1", domain.WalletStatusActive, sqlmock.AnyArg()).
			WillReturnRows(walletRows("w-1", "user-1", 0))

		wallet, err := repo.CreateForUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "w-1", wallet.ID)
		assert.Equal(t, int64(0), wallet.Balance)
	})

	t.Run("AlreadyProvisioned", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO wallets").
			WithArgs(sqlmock.AnyArg(), "user-1", domain.WalletStatusActive, sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "wallets_user_id_key"})
		mock.ExpectQuery("SELECT (.+) FROM wallets WHERE user_id = \\$1").
			WithArgs("user-1").
			WillReturnRows(walletRows("w-1", "user-1", 12000))

		wallet, err := repo.CreateForUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(12000), wallet.Balance)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
