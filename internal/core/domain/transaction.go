package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies which account operation produced a ledger entry.
type TransactionKind string

const (
	Withdrawal TransactionKind = "WITHDRAWAL"
	Deposit    TransactionKind = "DEPOSIT"
	Transfer   TransactionKind = "TRANSFER"
	PinChange  TransactionKind = "PIN CHANGE"
)

// Transaction is a single immutable ledger entry.
// BalanceAfter is the account balance immediately after the operation applied.
type Transaction struct {
	TransactionID string          `json:"transactionID"`           // uuid
	Kind          TransactionKind `json:"kind"`                    // WITHDRAWAL, DEPOSIT, TRANSFER, PIN CHANGE
	TargetAccount string          `json:"targetAccount,omitempty"` // Only set for TRANSFER
	Amount        decimal.Decimal `json:"amount"`                  // Zero for PIN CHANGE
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Type returns the display label of the entry, e.g. "TRANSFER TO ACC987654321".
func (t Transaction) Type() string {
	if t.Kind == Transfer {
		return string(Transfer) + " TO " + t.TargetAccount
	}
	return string(t.Kind)
}

// MovesMoney reports whether the entry changed the balance.
func (t Transaction) MovesMoney() bool {
	return t.Kind != PinChange
}
