// Package bcrypt hashes the end-users passwords with the bcrypt
// adaptive hash function.
package bcrypt

import (
	"errors"
	"fmt"

	"github.com/momeni/carpool/pkg/core/auth"
	"golang.org/x/crypto/bcrypt"
)

// Hasher implements the auth.PasswordHasher interface.
type Hasher struct {
	cost int
}

// New instantiates a Hasher with the given cost. Zero cost selects the
// bcrypt.DefaultCost value.
func New(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf(
			"cost (%d) is not in [%d, %d]",
			cost, bcrypt.MinCost, bcrypt.MaxCost,
		)
	}
	return &Hasher{cost: cost}, nil
}

// Hash computes the bcrypt hash of pass. Passwords longer than 72
// bytes are rejected by bcrypt.
func (h *Hasher) Hash(pass string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pass), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify compares pass with the hashed bcrypt string.
func (h *Hasher) Verify(hashed, pass string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pass))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return auth.ErrMismatchedPassword
	default:
		return fmt.Errorf("bcrypt: %w", err)
	}
}
