// Package auth provides credential hashing for the account operations.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher derives a storable hash from a plaintext credential. The
// reset-confirm flow only ever writes credentials, so verification is not part
// of the contract.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// BcryptHasher is the production hasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher builds a hasher with the given cost; zero or negative cost
// falls back to the bcrypt default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

// Compare reports whether password matches a hash produced by Hash. bcrypt
// output is salted, so this is the only way to check it.
func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
