// Package password hashes account passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrTooLong is returned for passwords bcrypt cannot hash.
var ErrTooLong = bcrypt.ErrPasswordTooLong

// DefaultCost matches the cost used for the seeded accounts.
const DefaultCost = 10

// Hasher hashes plaintext passwords.
type Hasher interface {
	Hash(plain string) (string, error)
}

// Bcrypt is the production Hasher.
type Bcrypt struct {
	Cost int
}

func NewBcrypt() Bcrypt {
	return Bcrypt{Cost: DefaultCost}
}

func (b Bcrypt) Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("empty password")
	}
	cost := b.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare reports whether plain matches the stored hash.
func Compare(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
