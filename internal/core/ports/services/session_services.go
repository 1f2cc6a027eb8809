package services

import (
	"context"

	"github.com/anupku07/atm_terminal/internal/core/domain"
)

// SessionSvc opens terminal sessions after a PIN check.
type SessionSvc interface {
	// OpenSession validates pin and issues a session token.
	// A rejected PIN yields an *apperrors.PinRejectedError.
	OpenSession(ctx context.Context, pin string) (*domain.Session, error)
}
