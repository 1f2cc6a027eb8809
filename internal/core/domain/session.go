package domain

import "time"

// Session is an authenticated terminal session opened by a correct PIN.
type Session struct {
	AccountNumber string
	Token         string
	ExpiresAt     time.Time
}
