package dto

import "time"

// PinLoginRequest is the body of the PIN authentication call.
// An empty pin is a failed attempt, not a bad request.
type PinLoginRequest struct {
	Pin string `json:"pin" example:"1234"`
}

// SessionResponse represents the response for a successful PIN authentication.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// PinErrorResponse is returned when a PIN is rejected.
type PinErrorResponse struct {
	Error        string `json:"error"`
	AttemptsLeft int    `json:"attemptsLeft"`
}
