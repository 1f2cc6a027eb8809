package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptPinHasher hashes PINs with bcrypt. A zero Cost means bcrypt.DefaultCost.
type BcryptPinHasher struct {
	Cost int
}

// NewBcryptPinHasher returns a hasher using cost, clamped to bcrypt's accepted range.
func NewBcryptPinHasher(cost int) BcryptPinHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptPinHasher{Cost: cost}
}

// Hash hashes a plaintext PIN using bcrypt.
func (h BcryptPinHasher) Hash(pin string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	return string(hash), err
}

// Matches compares a plaintext PIN with a bcrypt hash.
func (h BcryptPinHasher) Matches(hash, pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
