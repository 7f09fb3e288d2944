package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bikeshare-backend/internal/domain"
	"bikeshare-backend/internal/repository"

	"github.com/google/uuid"
)

type walletRepository struct {
	db DBTX
}

func NewWalletRepository(db DBTX) repository.WalletRepository {
	return &walletRepository{db: db}
}

const walletColumns = `id, user_id, balance, status, created_at, updated_at`

func scanWallet(row *sql.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(&w.ID, &w.UserID, &w.Balance, &w.Status, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *walletRepository) FindByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE user_id = $1`
	w, err := scanWallet(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (r *walletRepository) CreateForUser(ctx context.Context, userID string) (*domain.Wallet, error) {
	query := `INSERT INTO wallets (id, user_id, balance, status, created_at, updated_at)
	          VALUES ($1, $2, 0, $3, $4, $4)
	          RETURNING ` + walletColumns
	now := time.Now()
	w, err := scanWallet(r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, domain.WalletStatusActive, now))
	if isUniqueViolation(err, "wallets_user_id_key") {
		// Wallet already provisioned; signups are retryable.
		return r.FindByUserID(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// DecreaseBalance debits a wallet with a single conditional decrement so
// concurrent debits against a low balance cannot both succeed. The DEBIT
// transaction row is appended only after the decrement takes effect.
func (r *walletRepository) DecreaseBalance(ctx context.Context, in domain.DecreaseBalanceInput) (*domain.Wallet, error) {
	wallet, err := r.FindByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, &domain.UserWalletNotFoundError{UserID: in.UserID}
	}

	query := `UPDATE wallets SET balance = balance - $2, updated_at = $3
	          WHERE id = $1 AND balance >= $2`
	result, err := r.db.ExecContext(ctx, query, wallet.ID, in.Amount, time.Now())
	if err != nil {
		return nil, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, &domain.InsufficientBalanceError{
			WalletID:  wallet.ID,
			Balance:   wallet.Balance,
			Attempted: in.Amount,
		}
	}

	if err := r.appendTransaction(ctx, wallet.ID, in.Amount, 0, in.Description, in.Hash, domain.TransactionTypeDebit); err != nil {
		return nil, err
	}

	wallet.Balance -= in.Amount
	return wallet, nil
}

// IncreaseBalance credits a wallet unconditionally and appends the
// matching CREDIT transaction row. Fee is withheld from the credited net.
func (r *walletRepository) IncreaseBalance(ctx context.Context, in domain.IncreaseBalanceInput) (*domain.Wallet, error) {
	wallet, err := r.FindByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, &domain.UserWalletNotFoundError{UserID: in.UserID}
	}

	net := in.Amount - in.Fee
	query := `UPDATE wallets SET balance = balance + $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, wallet.ID, net, time.Now()); err != nil {
		return nil, err
	}

	txType := in.Type
	if txType == "" {
		txType = domain.TransactionTypeCredit
	}
	if err := r.appendTransaction(ctx, wallet.ID, in.Amount, in.Fee, in.Description, in.Hash, txType); err != nil {
		return nil, err
	}

	wallet.Balance += net
	return wallet, nil
}

func (r *walletRepository) appendTransaction(ctx context.Context, walletID string, amount, fee int64, description, hash string, txType domain.TransactionType) error {
	query := `INSERT INTO wallet_transactions (id, wallet_id, amount, fee, description, hash, type, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		uuid.NewString(), walletID, amount, fee, description, hash,
		txType, domain.TransactionStatusSuccess, time.Now())
	return err
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID string, page, pageSize int) ([]domain.WalletTransaction, int, error) {
	var count int
	countQuery := `SELECT count(*) FROM wallet_transactions WHERE wallet_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, walletID).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT id, wallet_id, amount, fee, COALESCE(description, ''), COALESCE(hash, ''), type, status, created_at
	          FROM wallet_transactions WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, walletID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var tx domain.WalletTransaction
		if err := rows.Scan(&tx.ID, &tx.WalletID, &tx.Amount, &tx.Fee, &tx.Description, &tx.Hash, &tx.Type, &tx.Status, &tx.CreatedAt); err != nil {
			return nil, 0, err
		}
		txs = append(txs, tx)
	}
	return txs, count, rows.Err()
}
