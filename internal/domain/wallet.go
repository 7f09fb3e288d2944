package domain

import "time"

type WalletStatus string

const (
	WalletStatusActive WalletStatus = "ACTIVE"
	WalletStatusFrozen WalletStatus = "FROZEN"
)

type TransactionType string

const (
	TransactionTypeDebit   TransactionType = "DEBIT"
	TransactionTypeCredit  TransactionType = "CREDIT"
	TransactionTypeDeposit TransactionType = "DEPOSIT"
)

type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Wallet balances are integer minor units. A committed debit never leaves
// the balance negative.
type Wallet struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Balance   int64        `json:"balance"`
	Status    WalletStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// WalletTransaction is the append-only audit row written alongside every
// ledger mutation. Hash is the caller-supplied idempotency key.
type WalletTransaction struct {
	ID          string            `json:"id"`
	WalletID    string            `json:"wallet_id"`
	Amount      int64             `json:"amount"`
	Fee         int64             `json:"fee"`
	Description string            `json:"description"`
	Hash        string            `json:"hash,omitempty"`
	Type        TransactionType   `json:"type"`
	Status      TransactionStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// DecreaseBalanceInput describes one conditional wallet debit.
type DecreaseBalanceInput struct {
	UserID      string
	Amount      int64
	Description string
	Hash        string
}

// IncreaseBalanceInput describes one wallet credit. Fee is subtracted from
// the credited net amount but recorded on the transaction row in full.
type IncreaseBalanceInput struct {
	UserID      string
	Amount      int64
	Fee         int64
	Description string
	Hash        string
	Type        TransactionType
}
