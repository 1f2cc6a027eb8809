package services_test

import (
	"context"

	"github.com/anupku07/atm_terminal/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockATMService is a mock type for the ATMSvcFacade interface
type MockATMService struct {
	mock.Mock
}

func (m *MockATMService) AccountNumber() string {
	return m.Called().String(0)
}

func (m *MockATMService) IsLocked() bool {
	return m.Called().Bool(0)
}

func (m *MockATMService) CurrencySymbol() string {
	return m.Called().String(0)
}

func (m *MockATMService) Balance(ctx context.Context) decimal.Decimal {
	return m.Called(ctx).Get(0).(decimal.Decimal)
}

func (m *MockATMService) Summary(ctx context.Context) domain.AccountSummary {
	return m.Called(ctx).Get(0).(domain.AccountSummary)
}

func (m *MockATMService) History(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockATMService) LastTransaction(ctx context.Context) (domain.Transaction, bool) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Transaction), args.Bool(1)
}

func (m *MockATMService) ValidatePin(ctx context.Context, pin string) domain.PinCheck {
	return m.Called(ctx, pin).Get(0).(domain.PinCheck)
}

func (m *MockATMService) Withdraw(ctx context.Context, amount decimal.Decimal) domain.OperationResult {
	return m.Called(ctx, amount).Get(0).(domain.OperationResult)
}

func (m *MockATMService) Deposit(ctx context.Context, amount decimal.Decimal) domain.OperationResult {
	return m.Called(ctx, amount).Get(0).(domain.OperationResult)
}

func (m *MockATMService) Transfer(ctx context.Context, amount decimal.Decimal, targetAccountID string) domain.OperationResult {
	return m.Called(ctx, amount, targetAccountID).Get(0).(domain.OperationResult)
}

func (m *MockATMService) ChangePin(ctx context.Context, oldPin, newPin string) (bool, error) {
	args := m.Called(ctx, oldPin, newPin)
	return args.Bool(0), args.Error(1)
}
