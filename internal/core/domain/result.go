package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Failure reasons carried by an OperationResult. They are outcome values, the
// account operations never return them as errors.
var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrLimitExceeded       = errors.New("limit exceeded")
	ErrTargetRequired      = errors.New("target account required")
)

// OperationResult is the outcome of a money operation.
// Balance is the balance after the operation, or the unchanged balance on failure.
type OperationResult struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Balance     decimal.Decimal `json:"balance"`
	Reason      error           `json:"-"`
	Transaction *Transaction    `json:"-"` // Ledger entry appended on success
}

// Failed reports whether the operation failed for the given reason.
func (r OperationResult) Failed(reason error) bool {
	return !r.Success && errors.Is(r.Reason, reason)
}
