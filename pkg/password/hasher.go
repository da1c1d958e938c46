// Package password provides secure password hashing and validation.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Errors for password operations.
var (
	ErrPasswordTooShort = errors.New("password is too short")
	ErrPasswordMismatch = errors.New("password does not match")
	ErrInvalidHash      = errors.New("invalid password hash")
)

// DefaultCost is the default bcrypt cost factor.
const DefaultCost = 12

// MinLength is the minimum accepted password length.
const MinLength = 8

// Hasher provides password hashing and verification operations.
type Hasher struct {
	cost int
}

// NewHasher creates a new Hasher with the given bcrypt cost. Costs
// outside the valid bcrypt range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes a plaintext password.
func (h *Hasher) Hash(plain string) (string, error) {
	if len(plain) < MinLength {
		return "", ErrPasswordTooShort
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify checks a plaintext password against a stored hash.
func (h *Hasher) Verify(plain, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	case errors.Is(err, bcrypt.ErrHashTooShort):
		return ErrInvalidHash
	default:
		return err
	}
}
