package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anupku07/atm_terminal/internal/apperrors"
	"github.com/anupku07/atm_terminal/internal/core/domain"
	portssvc "github.com/anupku07/atm_terminal/internal/core/ports/services"
	"github.com/anupku07/atm_terminal/internal/utils"
	"github.com/anupku07/atm_terminal/internal/utils/pagination"
	"github.com/anupku07/atm_terminal/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ATMServiceOption is a functional option for configuring the ATM service
type ATMServiceOption func(*atmService)

// WithMetrics records operation outcomes and account gauges in collector.
func WithMetrics(collector *metrics.MetricsCollector) ATMServiceOption {
	return func(s *atmService) {
		s.metrics = collector
	}
}

// WithAnalytics sends money movement events to PostHog.
func WithAnalytics(client *utils.PosthogClientWrapper) ATMServiceOption {
	return func(s *atmService) {
		s.analytics = client
	}
}

// atmService wraps the terminal account with logging, metrics and analytics.
// The account itself enforces all business rules.
type atmService struct {
	BaseService
	account   *domain.Account
	metrics   *metrics.MetricsCollector
	analytics *utils.PosthogClientWrapper
}

// NewATMService creates a new ATM service for account.
func NewATMService(account *domain.Account, options ...ATMServiceOption) portssvc.ATMSvcFacade {
	s := &atmService{account: account}
	for _, opt := range options {
		opt(s)
	}
	s.refreshGauges()
	return s
}

func (s *atmService) AccountNumber() string  { return s.account.AccountNumber() }
func (s *atmService) IsLocked() bool         { return s.account.IsLocked() }
func (s *atmService) CurrencySymbol() string { return s.account.CurrencySymbol() }

func (s *atmService) Balance(ctx context.Context) decimal.Decimal {
	return s.account.Balance()
}

func (s *atmService) Summary(ctx context.Context) domain.AccountSummary {
	return s.account.Summary()
}

func (s *atmService) LastTransaction(ctx context.Context) (domain.Transaction, bool) {
	return s.account.LastTransaction()
}

// History pages through the ledger in chronological order.
// nextToken encodes the ledger position and the ID of the entry before it; a token
// that does not match the current ledger is a validation error.
func (s *atmService) History(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	} else if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries := s.account.LedgerSnapshot()

	offset := 0
	if nextToken != nil && *nextToken != "" {
		var previousID string
		var err error
		offset, previousID, err = pagination.DecodeLedgerToken(*nextToken)
		if err != nil {
			s.LogWarn(ctx, "Rejected history token", slog.String("error", err.Error()))
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		if offset == 0 || offset > len(entries) || entries[offset-1].TransactionID != previousID {
			return nil, nil, fmt.Errorf("%w: pagination token does not match the ledger", apperrors.ErrValidation)
		}
	}

	end := offset + limit
	if end > len(entries) {
		end = len(entries)
	}
	page := entries[offset:end]

	var next *string
	if end < len(entries) {
		token := pagination.EncodeLedgerToken(end, entries[end-1].TransactionID)
		next = &token
	}

	s.LogDebug(ctx, "Listed ledger entries", slog.Int("offset", offset), slog.Int("count", len(page)))
	return page, next, nil
}

// ValidatePin checks pin and records the outcome.
func (s *atmService) ValidatePin(ctx context.Context, pin string) domain.PinCheck {
	wasLocked := s.account.IsLocked()
	check := s.account.CheckPin(pin)

	switch {
	case check.Matched:
		s.recordPinCheck("matched")
		s.LogInfo(ctx, "PIN accepted")
	case wasLocked:
		s.recordPinCheck("locked")
		s.LogWarn(ctx, "PIN check on locked account")
	default:
		s.recordPinCheck("mismatch")
		s.LogWarn(ctx, "PIN rejected", slog.Int("attempts_left", check.AttemptsLeft), slog.Bool("locked", check.Locked))
		if check.Locked {
			s.track("account_locked", nil)
		}
	}
	s.refreshGauges()
	return check
}

func (s *atmService) Withdraw(ctx context.Context, amount decimal.Decimal) domain.OperationResult {
	start := time.Now()
	result := s.account.Withdraw(amount)
	s.observe(ctx, "withdraw", amount, result, start)
	return result
}

func (s *atmService) Deposit(ctx context.Context, amount decimal.Decimal) domain.OperationResult {
	start := time.Now()
	result := s.account.Deposit(amount)
	s.observe(ctx, "deposit", amount, result, start)
	return result
}

func (s *atmService) Transfer(ctx context.Context, amount decimal.Decimal, targetAccountID string) domain.OperationResult {
	start := time.Now()
	result := s.account.Transfer(amount, targetAccountID)
	s.observe(ctx, "transfer", amount, result, start)
	return result
}

func (s *atmService) ChangePin(ctx context.Context, oldPin, newPin string) (bool, error) {
	start := time.Now()
	changed, err := s.account.UpdatePin(oldPin, newPin)

	outcome := "success"
	switch {
	case err != nil:
		outcome = "error"
		s.LogError(ctx, err, "PIN change failed")
	case !changed:
		outcome = "rejected"
		s.LogWarn(ctx, "PIN change rejected", slog.Bool("locked", s.account.IsLocked()))
	default:
		s.LogInfo(ctx, "PIN changed")
		s.track("pin_changed", nil)
	}
	if s.metrics != nil {
		s.metrics.RecordOperation("change_pin", outcome, time.Since(start))
	}
	s.refreshGauges()
	return changed, err
}

func (s *atmService) observe(ctx context.Context, operation string, amount decimal.Decimal, result domain.OperationResult, start time.Time) {
	outcome := outcomeLabel(result)
	if s.metrics != nil {
		s.metrics.RecordOperation(operation, outcome, time.Since(start))
	}

	if result.Success {
		s.LogInfo(ctx, "Operation succeeded",
			slog.String("operation", operation),
			slog.String("amount", amount.String()),
			slog.String("balance", result.Balance.String()))
		s.track(operation, map[string]any{"amount": amount.InexactFloat64()})
	} else {
		s.LogWarn(ctx, "Operation declined",
			slog.String("operation", operation),
			slog.String("amount", amount.String()),
			slog.String("outcome", outcome))
	}
	s.refreshGauges()
}

// outcomeLabel maps a result to its metrics label.
func outcomeLabel(result domain.OperationResult) string {
	if result.Success {
		return "success"
	}
	switch {
	case errors.Is(result.Reason, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(result.Reason, domain.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(result.Reason, domain.ErrLimitExceeded):
		return "limit_exceeded"
	case errors.Is(result.Reason, domain.ErrTargetRequired):
		return "target_required"
	default:
		return "failed"
	}
}

func (s *atmService) recordPinCheck(result string) {
	if s.metrics != nil {
		s.metrics.RecordPinCheck(result)
	}
}

func (s *atmService) refreshGauges() {
	if s.metrics == nil {
		return
	}
	summary := s.account.Summary()
	s.metrics.UpdateAccountState(summary.AccountNumber, summary.Balance.InexactFloat64(), summary.Locked, summary.LedgerEntries)
}

func (s *atmService) track(event string, properties map[string]any) {
	s.analytics.Enqueue(s.account.AccountNumber(), event, properties)
}
