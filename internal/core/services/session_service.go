package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anupku07/atm_terminal/internal/apperrors"
	"github.com/anupku07/atm_terminal/internal/core/domain"
	portssvc "github.com/anupku07/atm_terminal/internal/core/ports/services"
	"github.com/anupku07/atm_terminal/internal/platform/config"
	"github.com/anupku07/atm_terminal/internal/utils"
)

// sessionService opens terminal sessions: a PIN check followed by a signed JWT.
type sessionService struct {
	BaseService
	cfg *config.Config
	atm portssvc.ATMSvcFacade
	now func() time.Time
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(cfg *config.Config, atm portssvc.ATMSvcFacade) portssvc.SessionSvc {
	return &sessionService{
		cfg: cfg,
		atm: atm,
		now: time.Now,
	}
}

// OpenSession validates pin and issues a session token for the account.
func (s *sessionService) OpenSession(ctx context.Context, pin string) (*domain.Session, error) {
	if s.atm.IsLocked() {
		s.LogWarn(ctx, "Session refused, account is locked")
		return nil, &apperrors.PinRejectedError{Locked: true}
	}

	check := s.atm.ValidatePin(ctx, pin)
	if !check.Matched {
		return nil, &apperrors.PinRejectedError{AttemptsLeft: check.AttemptsLeft, Locked: check.Locked}
	}

	accountNumber := s.atm.AccountNumber()
	token, expiresAt, err := utils.GenerateSessionJWT(accountNumber, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign session token")
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.LogInfo(ctx, "Session opened", slog.Time("expires_at", expiresAt))
	return &domain.Session{
		AccountNumber: accountNumber,
		Token:         token,
		ExpiresAt:     expiresAt,
	}, nil
}
