package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeLength is the number of digits in a one-time passcode.
	CodeLength = 6

	// hashCost is deliberately below bcrypt.DefaultCost: codes live for
	// five minutes and are rate-limited by SMS delivery, not brute force.
	hashCost = 6
)

var (
	bcryptGenerateFromHash = bcrypt.GenerateFromPassword
	randomInt              = rand.Int
)

var codeSpace = big.NewInt(1_000_000)

// GenerateCode returns a uniformly random 6-digit numeric code,
// zero-padded.
func GenerateCode() (string, error) {
	n, err := randomInt(rand.Reader, codeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashCode hashes a one-time passcode for storage at rest.
func HashCode(code string) (string, error) {
	bytes, err := bcryptGenerateFromHash([]byte(code), hashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	return string(bytes), nil
}

// CheckCode compares a passcode with its stored hash.
func CheckCode(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
