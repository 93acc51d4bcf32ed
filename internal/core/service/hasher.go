package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/sample-intranet/identity-api/internal/core/domain"
)

// PasswordHasher wraps bcrypt with a fixed work factor. It holds no mutable
// state and is safe for concurrent use.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Costs
// outside bcrypt's supported range fall back to the library default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash produces a salted one-way hash of plaintext. bcrypt only rejects
// malformed input (e.g. passwords over 72 bytes); such failures wrap
// domain.ErrHashing.
func (h *PasswordHasher) Hash(plaintext string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHashing, err)
	}
	return hash, nil
}

// Verify reports whether plaintext matches hash. A malformed stored hash is
// a mismatch, never an error.
func (h *PasswordHasher) Verify(plaintext string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}
