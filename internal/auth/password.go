// Package auth wraps the password hashing primitive.  Passwords are stored
// only as bcrypt digests; comparison runs in constant time inside the
// bcrypt library.
package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/asdominguez/abstracts-portal/internal/model"
)

// HashPassword returns the bcrypt hash of plain using the given cost.  A cost
// outside bcrypt's supported range falls back to the library default.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyHash safely compares a bcrypt hash with a plain password.
func VerifyHash(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// VerifyPassword checks a plain password against an account's stored hash.
// A nil account verifies as false rather than erroring, so callers can feed
// the result of a lookup straight in.
func VerifyPassword(a *model.Account, plain string) bool {
	if a == nil {
		return false
	}
	return VerifyHash(a.PasswordHash, plain)
}
