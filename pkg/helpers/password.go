package helpers

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes passwords with bcrypt at a fixed cost
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     string
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Cost() int { return h.cost }

// Hash hashes the plain text password
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare compares a bcrypt hash with a plain password
func (h *PasswordHasher) Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// DummyHash returns a valid hash at the configured cost that matches no
// real password. Comparing against it costs the same as a real comparison.
func (h *PasswordHasher) DummyHash() string {
	h.dummyOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-unknown-users"), h.cost)
		if err == nil {
			h.dummy = string(b)
		}
	})
	return h.dummy
}
