package domain_test

import (
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anupku07/atm_terminal/internal/apperrors"
	"github.com/anupku07/atm_terminal/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainHasher stores PINs verbatim so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(pin string) (string, error) { return "plain:" + pin, nil }
func (plainHasher) Matches(hash, pin string) bool  { return hash == "plain:"+pin }

// brokenHasher hashes the initial PIN and fails on every later call.
type brokenHasher struct {
	plainHasher
	calls *int
}

func (h brokenHasher) Hash(pin string) (string, error) {
	*h.calls++
	if *h.calls > 1 {
		return "", errors.New("hasher unavailable")
	}
	return h.plainHasher.Hash(pin)
}

var fixedNow = time.Date(2024, 3, 9, 14, 5, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestAccount(t *testing.T, balance string) *domain.Account {
	t.Helper()
	acc, err := domain.NewAccount("ACC123456789", "John Doe", dec(balance), "1234", plainHasher{},
		domain.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return acc
}

func TestNewAccount_Validation(t *testing.T) {
	tests := []struct {
		name          string
		accountNumber string
		balance       string
		pin           string
		hasher        domain.PinHasher
	}{
		{name: "blank account number", accountNumber: "  ", balance: "10", pin: "1234", hasher: plainHasher{}},
		{name: "negative balance", accountNumber: "ACC1", balance: "-0.01", pin: "1234", hasher: plainHasher{}},
		{name: "short PIN", accountNumber: "ACC1", balance: "10", pin: "123", hasher: plainHasher{}},
		{name: "long PIN", accountNumber: "ACC1", balance: "10", pin: "12345", hasher: plainHasher{}},
		{name: "missing hasher", accountNumber: "ACC1", balance: "10", pin: "1234", hasher: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc, err := domain.NewAccount(tt.accountNumber, "Jane", dec(tt.balance), tt.pin, tt.hasher)
			assert.Nil(t, acc)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestNewAccount_InitialState(t *testing.T) {
	acc := newTestAccount(t, "25000.00")

	assert.Equal(t, "ACC123456789", acc.AccountNumber())
	assert.Equal(t, "John Doe", acc.HolderName())
	assert.True(t, acc.Balance().Equal(dec("25000")))
	assert.True(t, acc.InitialBalance().Equal(dec("25000")))
	assert.False(t, acc.IsLocked())
	assert.Equal(t, 0, acc.FailedAttempts())
	assert.Empty(t, acc.LedgerSnapshot())
	_, ok := acc.LastTransaction()
	assert.False(t, ok)
}

func TestValidatePin_ResetsCounterOnMatch(t *testing.T) {
	acc := newTestAccount(t, "100")

	assert.False(t, acc.ValidatePin("0000"))
	assert.False(t, acc.ValidatePin("1111"))
	assert.Equal(t, 2, acc.FailedAttempts())

	assert.True(t, acc.ValidatePin("1234"))
	assert.Equal(t, 0, acc.FailedAttempts())
	assert.False(t, acc.IsLocked())

	// Two more misses after a reset must not lock.
	assert.False(t, acc.ValidatePin("0000"))
	assert.False(t, acc.ValidatePin("0000"))
	assert.False(t, acc.IsLocked())
}

func TestValidatePin_LocksAfterThreeFailures(t *testing.T) {
	acc := newTestAccount(t, "100")

	for i := 0; i < domain.MaxFailedAttempts; i++ {
		assert.False(t, acc.ValidatePin("9999"))
	}
	assert.True(t, acc.IsLocked())

	// Correct PIN is refused once locked, and the counter stops moving.
	assert.False(t, acc.ValidatePin("1234"))
	assert.Equal(t, domain.MaxFailedAttempts, acc.FailedAttempts())
	assert.True(t, acc.IsLocked())
}

func TestCheckPin_ReportsAttemptsLeft(t *testing.T) {
	acc := newTestAccount(t, "100")

	check := acc.CheckPin("0000")
	assert.Equal(t, domain.PinCheck{Matched: false, Locked: false, AttemptsLeft: 2}, check)

	check = acc.CheckPin("0000")
	assert.Equal(t, 1, check.AttemptsLeft)

	check = acc.CheckPin("0000")
	assert.Equal(t, domain.PinCheck{Matched: false, Locked: true, AttemptsLeft: 0}, check)

	check = acc.CheckPin("1234")
	assert.False(t, check.Matched)
	assert.True(t, check.Locked)
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name        string
		balance     string
		amount      string
		wantReason  error
		wantMessage string
		wantBalance string
	}{
		{name: "success", balance: "2000", amount: "250.50", wantMessage: "Successfully withdrawn Rs 250.50", wantBalance: "1749.50"},
		{name: "exactly the limit", balance: "2000", amount: "1000", wantMessage: "Successfully withdrawn Rs 1000.00", wantBalance: "1000"},
		{name: "whole balance", balance: "300", amount: "300", wantMessage: "Successfully withdrawn Rs 300.00", wantBalance: "0"},
		{name: "zero", balance: "2000", amount: "0", wantReason: domain.ErrInvalidAmount, wantMessage: "Amount must be greater than Rs 0", wantBalance: "2000"},
		{name: "negative", balance: "0", amount: "-10", wantReason: domain.ErrInvalidAmount, wantMessage: "Amount must be greater than Rs 0", wantBalance: "0"},
		{name: "insufficient within limit", balance: "100", amount: "500", wantReason: domain.ErrInsufficientBalance, wantMessage: "Insufficient balance. Current balance: Rs 100.00", wantBalance: "100"},
		{name: "over limit with funds", balance: "5000", amount: "1000.01", wantReason: domain.ErrLimitExceeded, wantMessage: "Daily withdrawal limit exceeded. Maximum: Rs 1000.00", wantBalance: "5000"},
		{name: "over limit and over balance reports balance", balance: "800", amount: "1500", wantReason: domain.ErrInsufficientBalance, wantMessage: "Insufficient balance. Current balance: Rs 800.00", wantBalance: "800"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newTestAccount(t, tt.balance)

			res := acc.Withdraw(dec(tt.amount))

			assert.Equal(t, tt.wantMessage, res.Message)
			assert.True(t, res.Balance.Equal(dec(tt.wantBalance)), "balance %s", res.Balance)
			assert.True(t, acc.Balance().Equal(dec(tt.wantBalance)))
			if tt.wantReason != nil {
				assert.False(t, res.Success)
				assert.True(t, res.Failed(tt.wantReason))
				assert.Nil(t, res.Transaction)
				assert.Empty(t, acc.LedgerSnapshot())
				return
			}
			assert.True(t, res.Success)
			assert.NoError(t, res.Reason)
			require.NotNil(t, res.Transaction)
			ledger := acc.LedgerSnapshot()
			require.Len(t, ledger, 1)
			assert.Equal(t, domain.Withdrawal, ledger[0].Kind)
			assert.True(t, ledger[0].Amount.Equal(dec(tt.amount)))
			assert.True(t, ledger[0].BalanceAfter.Equal(dec(tt.wantBalance)))
			assert.Equal(t, fixedNow, ledger[0].Timestamp)
			assert.NotEmpty(t, ledger[0].TransactionID)
		})
	}
}

func TestDeposit(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		wantReason  error
		wantMessage string
		wantBalance string
	}{
		{name: "success", amount: "1500.25", wantMessage: "Successfully deposited Rs 1500.25", wantBalance: "1600.25"},
		{name: "exactly the limit", amount: "10000", wantMessage: "Successfully deposited Rs 10000.00", wantBalance: "10100"},
		{name: "zero", amount: "0", wantReason: domain.ErrInvalidAmount, wantMessage: "Amount must be greater than Rs 0", wantBalance: "100"},
		{name: "negative", amount: "-5", wantReason: domain.ErrInvalidAmount, wantMessage: "Amount must be greater than Rs 0", wantBalance: "100"},
		{name: "over limit", amount: "10000.01", wantReason: domain.ErrLimitExceeded, wantMessage: "Daily deposit limit exceeded. Maximum: Rs 10000.00", wantBalance: "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newTestAccount(t, "100")

			res := acc.Deposit(dec(tt.amount))

			assert.Equal(t, tt.wantMessage, res.Message)
			assert.True(t, acc.Balance().Equal(dec(tt.wantBalance)))
			if tt.wantReason != nil {
				assert.True(t, res.Failed(tt.wantReason))
				assert.Empty(t, acc.LedgerSnapshot())
				return
			}
			assert.True(t, res.Success)
			ledger := acc.LedgerSnapshot()
			require.Len(t, ledger, 1)
			assert.Equal(t, domain.Deposit, ledger[0].Kind)
			assert.True(t, ledger[0].BalanceAfter.Equal(dec(tt.wantBalance)))
		})
	}
}

func TestTransfer(t *testing.T) {
	tests := []struct {
		name        string
		balance     string
		amount      string
		target      string
		wantReason  error
		wantMessage string
	}{
		{name: "success", balance: "6000", amount: "200", target: "ACC987654321", wantMessage: "Successfully transferred Rs 200.00 to ACC987654321"},
		{name: "target is trimmed", balance: "6000", amount: "200", target: "  ACC1  ", wantMessage: "Successfully transferred Rs 200.00 to ACC1"},
		{name: "non-positive", balance: "6000", amount: "0", target: "ACC1", wantReason: domain.ErrInvalidAmount, wantMessage: "Amount must be greater than Rs 0"},
		{name: "insufficient", balance: "100", amount: "200", target: "ACC1", wantReason: domain.ErrInsufficientBalance, wantMessage: "Insufficient balance. Current balance: Rs 100.00"},
		{name: "over limit", balance: "9000", amount: "5000.50", target: "ACC1", wantReason: domain.ErrLimitExceeded, wantMessage: "Daily transfer limit exceeded. Maximum: Rs 5000.00"},
		{name: "blank target with funds", balance: "6000", amount: "200", target: "", wantReason: domain.ErrTargetRequired, wantMessage: "Target account number is required"},
		{name: "whitespace target with funds", balance: "6000", amount: "200", target: " \t", wantReason: domain.ErrTargetRequired, wantMessage: "Target account number is required"},
		{name: "blank target without funds reports balance", balance: "100", amount: "200", target: "", wantReason: domain.ErrInsufficientBalance, wantMessage: "Insufficient balance. Current balance: Rs 100.00"},
		{name: "blank target over limit reports limit", balance: "9000", amount: "6000", target: "", wantReason: domain.ErrLimitExceeded, wantMessage: "Daily transfer limit exceeded. Maximum: Rs 5000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := newTestAccount(t, tt.balance)

			res := acc.Transfer(dec(tt.amount), tt.target)

			assert.Equal(t, tt.wantMessage, res.Message)
			if tt.wantReason != nil {
				assert.True(t, res.Failed(tt.wantReason), "reason %v", res.Reason)
				assert.True(t, acc.Balance().Equal(dec(tt.balance)))
				assert.Empty(t, acc.LedgerSnapshot())
				return
			}
			assert.True(t, res.Success)
			want := dec(tt.balance).Sub(dec(tt.amount))
			assert.True(t, acc.Balance().Equal(want))
			ledger := acc.LedgerSnapshot()
			require.Len(t, ledger, 1)
			assert.Equal(t, domain.Transfer, ledger[0].Kind)
			assert.Equal(t, "TRANSFER TO "+ledger[0].TargetAccount, ledger[0].Type())
		})
	}
}

func TestChangePin(t *testing.T) {
	t.Run("success records a zero-amount entry", func(t *testing.T) {
		acc := newTestAccount(t, "500")

		assert.True(t, acc.ChangePin("1234", "5678"))

		assert.True(t, acc.ValidatePin("5678"))
		assert.False(t, acc.ValidatePin("1234"))
		ledger := acc.LedgerSnapshot()
		require.Len(t, ledger, 1)
		assert.Equal(t, domain.PinChange, ledger[0].Kind)
		assert.True(t, ledger[0].Amount.IsZero())
		assert.True(t, ledger[0].BalanceAfter.Equal(dec("500")))
		assert.False(t, ledger[0].MovesMoney())
	})

	t.Run("non-numeric four characters accepted", func(t *testing.T) {
		acc := newTestAccount(t, "500")
		assert.True(t, acc.ChangePin("1234", "ab#d"))
		assert.True(t, acc.ValidatePin("ab#d"))
	})

	t.Run("four multi-byte characters accepted", func(t *testing.T) {
		acc := newTestAccount(t, "500")
		assert.True(t, acc.ChangePin("1234", "ñüéö"))
	})

	t.Run("wrong length rejected without changing PIN", func(t *testing.T) {
		acc := newTestAccount(t, "500")
		assert.False(t, acc.ChangePin("1234", "123"))
		assert.False(t, acc.ChangePin("1234", "12345"))
		assert.True(t, acc.ValidatePin("1234"))
		assert.Empty(t, acc.LedgerSnapshot())
	})

	t.Run("empty old PIN is a failed attempt", func(t *testing.T) {
		acc := newTestAccount(t, "500")
		assert.False(t, acc.ChangePin("", "5678"))
		assert.Equal(t, 1, acc.FailedAttempts())
		assert.True(t, acc.ValidatePin("1234"))
	})

	t.Run("wrong old PIN counts toward lockout", func(t *testing.T) {
		acc := newTestAccount(t, "500")
		assert.False(t, acc.ChangePin("0000", "5678"))
		assert.Equal(t, 1, acc.FailedAttempts())
		assert.False(t, acc.ChangePin("0000", "5678"))
		assert.False(t, acc.ValidatePin("0000"))
		assert.True(t, acc.IsLocked())
		assert.False(t, acc.ChangePin("1234", "5678"))
	})
}

func TestUpdatePin_HashFailure(t *testing.T) {
	calls := 0
	acc, err := domain.NewAccount("ACC123456789", "John Doe", dec("500"), "1234", brokenHasher{calls: &calls})
	require.NoError(t, err)

	changed, err := acc.UpdatePin("1234", "5678")
	assert.False(t, changed)
	assert.ErrorContains(t, err, "hasher unavailable")
	assert.True(t, acc.ValidatePin("1234"))
	assert.Empty(t, acc.LedgerSnapshot())

	changed, err = acc.UpdatePin("0000", "5678")
	assert.False(t, changed)
	assert.NoError(t, err)
	assert.Equal(t, 1, acc.FailedAttempts())
}

func TestLastTransaction_SkipsPinChange(t *testing.T) {
	acc := newTestAccount(t, "25000.00")

	require.True(t, acc.Withdraw(dec("500")).Success)
	require.True(t, acc.ChangePin("1234", "5678"))

	last, ok := acc.LastTransaction()
	require.True(t, ok)
	assert.Equal(t, domain.Withdrawal, last.Kind)
	assert.True(t, last.Amount.Equal(dec("500")))
	assert.Len(t, acc.LedgerSnapshot(), 2)

	fresh := newTestAccount(t, "100")
	require.True(t, fresh.ChangePin("1234", "4321"))
	_, ok = fresh.LastTransaction()
	assert.False(t, ok)
}

func TestScenario_ReferenceSession(t *testing.T) {
	acc := newTestAccount(t, "25000.00")

	res := acc.Withdraw(dec("500.00"))
	assert.True(t, res.Success)
	assert.True(t, acc.Balance().Equal(dec("24500.00")))
	assert.Len(t, acc.LedgerSnapshot(), 1)

	res = acc.Withdraw(dec("1500.00"))
	assert.True(t, res.Failed(domain.ErrLimitExceeded))

	res = acc.Deposit(dec("-5"))
	assert.True(t, res.Failed(domain.ErrInvalidAmount))
	assert.Equal(t, "Amount must be greater than Rs 0", res.Message)

	res = acc.Transfer(dec("200.00"), "")
	assert.True(t, res.Failed(domain.ErrTargetRequired))

	assert.False(t, acc.ChangePin("0000", "5678"))
	assert.Equal(t, 1, acc.FailedAttempts())

	assert.True(t, acc.Balance().Equal(dec("24500.00")))
	assert.Len(t, acc.LedgerSnapshot(), 1)
}

func TestCurrencySymbolOption(t *testing.T) {
	acc, err := domain.NewAccount("ACC1", "Jane", dec("10"), "1234", plainHasher{}, domain.WithCurrencySymbol("$"))
	require.NoError(t, err)

	assert.Equal(t, "Amount must be greater than $ 0", acc.Withdraw(dec("0")).Message)
	assert.Equal(t, "Insufficient balance. Current balance: $ 10.00", acc.Withdraw(dec("11")).Message)
}

func TestLedgerInvariant_RandomOperations(t *testing.T) {
	acc := newTestAccount(t, "25000.00")
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		amount := decimal.NewFromInt(int64(rng.Intn(12000) - 1000)).Div(decimal.NewFromInt(4))
		switch rng.Intn(4) {
		case 0:
			acc.Withdraw(amount)
		case 1:
			acc.Deposit(amount)
		case 2:
			target := ""
			if rng.Intn(3) > 0 {
				target = "ACC42"
			}
			acc.Transfer(amount, target)
		case 3:
			acc.ChangePin("1234", "1234")
		}

		ledger := acc.LedgerSnapshot()
		if len(ledger) == 0 {
			require.True(t, acc.Balance().Equal(acc.InitialBalance()))
			continue
		}
		require.True(t, acc.Balance().Equal(ledger[len(ledger)-1].BalanceAfter))
		require.False(t, acc.Balance().IsNegative())
	}

	// Folding every entry from the initial balance reproduces each balanceAfter.
	running := acc.InitialBalance()
	for _, tx := range acc.LedgerSnapshot() {
		switch tx.Kind {
		case domain.Deposit:
			running = running.Add(tx.Amount)
		case domain.Withdrawal, domain.Transfer:
			running = running.Sub(tx.Amount)
		}
		require.True(t, running.Equal(tx.BalanceAfter), "entry %s", tx.TransactionID)
	}
}

func TestConcurrentWithdrawals(t *testing.T) {
	acc := newTestAccount(t, "1000")

	const workers = 50
	var wg sync.WaitGroup
	var succeeded atomic.Int32
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if acc.Withdraw(dec("100")).Success {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), succeeded.Load())
	assert.True(t, acc.Balance().IsZero())
	assert.Len(t, acc.LedgerSnapshot(), 10)
}

func TestConcurrentPinFailuresLockExactlyOnce(t *testing.T) {
	acc := newTestAccount(t, "1000")

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 0; i < 20; i++ {
		go func() {
			defer wg.Done()
			acc.ValidatePin("0000")
		}()
	}
	wg.Wait()

	assert.True(t, acc.IsLocked())
	assert.Equal(t, domain.MaxFailedAttempts, acc.FailedAttempts())
}
