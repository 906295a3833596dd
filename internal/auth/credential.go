package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/inkwell-cms/inkwell/internal/shared"
)

// DefaultHashCost matches the work factor the service has always used for
// stored credentials.
const DefaultHashCost = 12

// Hasher performs one-way hashing and verification of passwords.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher with the given bcrypt work factor. Costs outside
// the supported range fall back to DefaultHashCost.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return Hasher{cost: cost}
}

// Hash derives a salted one-way hash from the plaintext password. Empty
// input is a caller contract violation.
func (h Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", fmt.Errorf("%w: password must not be empty", shared.ErrInvalidInput)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether the plaintext matches the stored hash. Any failure,
// including a malformed stored hash, is "does not verify" rather than an
// error, so callers cannot distinguish failure modes.
func (h Hasher) Verify(plaintext, hashed string) bool {
	if plaintext == "" || hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
