package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUnauthorized indicates that the caller presented a wrong or missing credential.
var ErrUnauthorized = errors.New("unauthorized")

// ErrLocked indicates that the account refuses PIN checks after too many failed attempts.
var ErrLocked = errors.New("account locked")

// PinRejectedError is returned when a PIN check fails.
// It unwraps to ErrLocked when the account is locked, ErrUnauthorized otherwise.
type PinRejectedError struct {
	AttemptsLeft int
	Locked       bool
}

func (e *PinRejectedError) Error() string {
	if e.Locked {
		return "Account is blocked due to multiple failed attempts."
	}
	return "Invalid PIN. Please try again."
}

func (e *PinRejectedError) Unwrap() error {
	if e.Locked {
		return ErrLocked
	}
	return ErrUnauthorized
}
