package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/anupku07/atm_terminal/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxFailedAttempts is the number of consecutive PIN mismatches that locks the account.
	MaxFailedAttempts = 3
	// PinLength is the exact number of characters a PIN must have.
	PinLength = 4
	// DefaultCurrencySymbol prefixes amounts in result messages.
	DefaultCurrencySymbol = "Rs"
)

// Per-operation maxima.
var (
	MaxWithdrawal = decimal.RequireFromString("1000.00")
	MaxDeposit    = decimal.RequireFromString("10000.00")
	MaxTransfer   = decimal.RequireFromString("5000.00")
)

// Limits groups the per-operation maxima for display.
type Limits struct {
	MaxWithdrawal decimal.Decimal `json:"maxWithdrawal"`
	MaxDeposit    decimal.Decimal `json:"maxDeposit"`
	MaxTransfer   decimal.Decimal `json:"maxTransfer"`
}

// AccountSummary is a consistent view of the account taken under one lock.
type AccountSummary struct {
	AccountNumber  string
	HolderName     string
	Balance        decimal.Decimal
	Locked         bool
	FailedAttempts int
	LedgerEntries  int
	Limits         Limits
}

// PinHasher turns a PIN into its stored form and checks candidates against it.
type PinHasher interface {
	Hash(pin string) (string, error)
	Matches(hash string, pin string) bool
}

// PinCheck is the outcome of a single PIN verification.
type PinCheck struct {
	Matched      bool
	Locked       bool // Account is locked after this check
	AttemptsLeft int
}

// Account is the single ATM account: balance, PIN state and the ledger it owns.
// All methods are safe for concurrent use; each operation runs under one lock so
// validation and mutation are atomic.
type Account struct {
	mu             sync.Mutex
	accountNumber  string
	holderName     string
	initialBalance decimal.Decimal
	balance        decimal.Decimal
	pinHash        string
	failedAttempts int
	locked         bool
	ledger         Ledger

	hasher         PinHasher
	now            func() time.Time
	currencySymbol string
}

// AccountOption configures optional Account behaviour.
type AccountOption func(*Account)

// WithClock overrides the clock used to timestamp ledger entries.
func WithClock(now func() time.Time) AccountOption {
	return func(a *Account) {
		a.now = now
	}
}

// WithCurrencySymbol overrides the symbol used in result messages.
func WithCurrencySymbol(symbol string) AccountOption {
	return func(a *Account) {
		a.currencySymbol = symbol
	}
}

// NewAccount creates an unlocked account with an empty ledger.
func NewAccount(accountNumber, holderName string, initialBalance decimal.Decimal, pin string, hasher PinHasher, opts ...AccountOption) (*Account, error) {
	if strings.TrimSpace(accountNumber) == "" {
		return nil, fmt.Errorf("%w: account number is required", apperrors.ErrValidation)
	}
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance cannot be negative", apperrors.ErrValidation)
	}
	if utf8.RuneCountInString(pin) != PinLength {
		return nil, fmt.Errorf("%w: PIN must be %d characters", apperrors.ErrValidation, PinLength)
	}
	if hasher == nil {
		return nil, fmt.Errorf("%w: PIN hasher is required", apperrors.ErrValidation)
	}

	pinHash, err := hasher.Hash(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}

	a := &Account{
		accountNumber:  accountNumber,
		holderName:     holderName,
		initialBalance: initialBalance,
		balance:        initialBalance,
		pinHash:        pinHash,
		hasher:         hasher,
		now:            time.Now,
		currencySymbol: DefaultCurrencySymbol,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Account) AccountNumber() string { return a.accountNumber }
func (a *Account) HolderName() string    { return a.holderName }

// InitialBalance returns the balance the account was opened with.
func (a *Account) InitialBalance() decimal.Decimal { return a.initialBalance }

// Limits returns the per-operation maxima.
func (a *Account) Limits() Limits {
	return Limits{MaxWithdrawal: MaxWithdrawal, MaxDeposit: MaxDeposit, MaxTransfer: MaxTransfer}
}

// CurrencySymbol returns the symbol amounts are displayed with.
func (a *Account) CurrencySymbol() string { return a.currencySymbol }

// Summary returns the account state as one snapshot.
func (a *Account) Summary() AccountSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AccountSummary{
		AccountNumber:  a.accountNumber,
		HolderName:     a.holderName,
		Balance:        a.balance,
		Locked:         a.locked,
		FailedAttempts: a.failedAttempts,
		LedgerEntries:  a.ledger.Len(),
		Limits:         a.Limits(),
	}
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// IsLocked reports whether the account has been locked by failed PIN attempts.
func (a *Account) IsLocked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.locked
}

// FailedAttempts returns the current count of consecutive PIN mismatches.
func (a *Account) FailedAttempts() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.failedAttempts
}

// LedgerSnapshot returns a copy of the ledger in chronological order.
func (a *Account) LedgerSnapshot() []Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.Snapshot()
}

// LastTransaction returns the most recent entry that moved money, if any.
// PIN changes are skipped so they never replace the receipt transaction.
func (a *Account) LastTransaction() (Transaction, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ledger.LastMovement()
}

// ValidatePin checks entered against the PIN.
// A locked account rejects every PIN, including the correct one.
func (a *Account) ValidatePin(entered string) bool {
	return a.CheckPin(entered).Matched
}

// CheckPin is ValidatePin with the resulting lockout state captured in the same
// critical section.
func (a *Account) CheckPin(entered string) PinCheck {
	a.mu.Lock()
	defer a.mu.Unlock()
	matched := a.validatePinLocked(entered)
	return PinCheck{
		Matched:      matched,
		Locked:       a.locked,
		AttemptsLeft: a.attemptsLeftLocked(),
	}
}

func (a *Account) validatePinLocked(entered string) bool {
	if a.locked {
		return false
	}
	if a.hasher.Matches(a.pinHash, entered) {
		a.failedAttempts = 0
		return true
	}
	a.failedAttempts++
	if a.failedAttempts >= MaxFailedAttempts {
		a.locked = true
	}
	return false
}

func (a *Account) attemptsLeftLocked() int {
	if a.locked {
		return 0
	}
	return MaxFailedAttempts - a.failedAttempts
}

// Withdraw takes amount out of the account.
// Checks run in order: positive amount, sufficient balance, withdrawal limit.
func (a *Account) Withdraw(amount decimal.Decimal) OperationResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !amount.IsPositive() {
		return a.failLocked(ErrInvalidAmount, a.positiveAmountMessage())
	}
	if amount.GreaterThan(a.balance) {
		return a.failLocked(ErrInsufficientBalance, a.insufficientBalanceMessage())
	}
	if amount.GreaterThan(MaxWithdrawal) {
		return a.failLocked(ErrLimitExceeded, fmt.Sprintf("Daily withdrawal limit exceeded. Maximum: %s", a.money(MaxWithdrawal)))
	}

	a.balance = a.balance.Sub(amount)
	tx := a.recordLocked(Withdrawal, "", amount)
	return a.succeedLocked(tx, fmt.Sprintf("Successfully withdrawn %s", a.money(amount)))
}

// Deposit adds amount to the account.
// Checks run in order: positive amount, deposit limit.
func (a *Account) Deposit(amount decimal.Decimal) OperationResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !amount.IsPositive() {
		return a.failLocked(ErrInvalidAmount, a.positiveAmountMessage())
	}
	if amount.GreaterThan(MaxDeposit) {
		return a.failLocked(ErrLimitExceeded, fmt.Sprintf("Daily deposit limit exceeded. Maximum: %s", a.money(MaxDeposit)))
	}

	a.balance = a.balance.Add(amount)
	tx := a.recordLocked(Deposit, "", amount)
	return a.succeedLocked(tx, fmt.Sprintf("Successfully deposited %s", a.money(amount)))
}

// Transfer moves amount to targetAccountID.
// Checks run in order: positive amount, sufficient balance, transfer limit, non-blank target.
// The target is checked last so a blank target with insufficient funds reports the balance failure.
func (a *Account) Transfer(amount decimal.Decimal, targetAccountID string) OperationResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !amount.IsPositive() {
		return a.failLocked(ErrInvalidAmount, a.positiveAmountMessage())
	}
	if amount.GreaterThan(a.balance) {
		return a.failLocked(ErrInsufficientBalance, a.insufficientBalanceMessage())
	}
	if amount.GreaterThan(MaxTransfer) {
		return a.failLocked(ErrLimitExceeded, fmt.Sprintf("Daily transfer limit exceeded. Maximum: %s", a.money(MaxTransfer)))
	}
	target := strings.TrimSpace(targetAccountID)
	if target == "" {
		return a.failLocked(ErrTargetRequired, "Target account number is required")
	}

	a.balance = a.balance.Sub(amount)
	tx := a.recordLocked(Transfer, target, amount)
	return a.succeedLocked(tx, fmt.Sprintf("Successfully transferred %s to %s", a.money(amount), target))
}

// ChangePin replaces the PIN when oldPin is correct and newPin has exactly four characters.
// A wrong oldPin counts as a failed attempt toward lockout.
func (a *Account) ChangePin(oldPin, newPin string) bool {
	changed, _ := a.UpdatePin(oldPin, newPin)
	return changed
}

// UpdatePin is ChangePin with hashing failures reported as an error.
// The PIN is left unchanged when an error is returned.
func (a *Account) UpdatePin(oldPin, newPin string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.validatePinLocked(oldPin) {
		return false, nil
	}
	if utf8.RuneCountInString(newPin) != PinLength {
		return false, nil
	}
	hash, err := a.hasher.Hash(newPin)
	if err != nil {
		return false, fmt.Errorf("failed to hash new PIN: %w", err)
	}

	a.pinHash = hash
	a.recordLocked(PinChange, "", decimal.Zero)
	return true, nil
}

func (a *Account) recordLocked(kind TransactionKind, target string, amount decimal.Decimal) Transaction {
	tx := Transaction{
		TransactionID: uuid.NewString(),
		Kind:          kind,
		TargetAccount: target,
		Amount:        amount,
		BalanceAfter:  a.balance,
		Timestamp:     a.now(),
	}
	a.ledger.Append(tx)
	return tx
}

func (a *Account) succeedLocked(tx Transaction, msg string) OperationResult {
	return OperationResult{Success: true, Message: msg, Balance: a.balance, Transaction: &tx}
}

func (a *Account) failLocked(reason error, msg string) OperationResult {
	return OperationResult{Success: false, Message: msg, Balance: a.balance, Reason: reason}
}

func (a *Account) positiveAmountMessage() string {
	return fmt.Sprintf("Amount must be greater than %s 0", a.currencySymbol)
}

func (a *Account) insufficientBalanceMessage() string {
	return fmt.Sprintf("Insufficient balance. Current balance: %s", a.money(a.balance))
}

func (a *Account) money(amount decimal.Decimal) string {
	return a.currencySymbol + " " + amount.StringFixed(2)
}
