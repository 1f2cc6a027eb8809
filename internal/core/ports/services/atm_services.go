package services

import (
	"context"

	"github.com/anupku07/atm_terminal/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ATMReaderSvc defines read operations on the terminal's account
type ATMReaderSvc interface {
	// AccountNumber and IsLocked take no context so the session middleware can use them directly.
	AccountNumber() string
	IsLocked() bool

	// Balance returns the current balance.
	Balance(ctx context.Context) decimal.Decimal

	// Summary returns a consistent snapshot of the account state.
	Summary(ctx context.Context) domain.AccountSummary

	// History returns up to limit ledger entries starting at the position encoded in nextToken.
	// The returned token is nil when there are no more entries.
	History(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// LastTransaction returns the most recent withdrawal, deposit or transfer, if any.
	LastTransaction(ctx context.Context) (domain.Transaction, bool)

	// CurrencySymbol returns the symbol amounts are displayed with.
	CurrencySymbol() string
}

// ATMOperatorSvc defines the money moving operations and PIN management
type ATMOperatorSvc interface {
	ValidatePin(ctx context.Context, pin string) domain.PinCheck
	Withdraw(ctx context.Context, amount decimal.Decimal) domain.OperationResult
	Deposit(ctx context.Context, amount decimal.Decimal) domain.OperationResult
	Transfer(ctx context.Context, amount decimal.Decimal, targetAccountID string) domain.OperationResult
	ChangePin(ctx context.Context, oldPin, newPin string) (bool, error)
}

// ATMSvcFacade combines all ATM service interfaces
type ATMSvcFacade interface {
	ATMReaderSvc
	ATMOperatorSvc
}
