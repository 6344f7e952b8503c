// Package password hashes user passwords with bcrypt and refresh tokens
// with SHA-256.
package password

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt cost for new hashes
	DefaultCost = 12

	// MinLength is the shortest accepted password
	MinLength = 8

	// MaxLength is the longest password bcrypt can hash (bytes)
	MaxLength = 72
)

var ErrTooLong = errors.New("password is longer than 72 bytes")

// Cost is the bcrypt cost used by Hash. Tests lower it to bcrypt.MinCost.
var Cost = DefaultCost

// Hash returns the bcrypt hash of plain
func Hash(plain string) (string, error) {
	if len(plain) > MaxLength {
		return "", ErrTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches hash
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// NeedsRehash reports whether hash was made with a lower cost than Cost.
// Unparsable hashes are left alone.
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false
	}
	return cost < Cost
}

// HashToken is the lookup key stored for a refresh token
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidatePassword checks the length bounds
func ValidatePassword(plain string) bool {
	return len(plain) >= MinLength && len(plain) <= MaxLength
}
