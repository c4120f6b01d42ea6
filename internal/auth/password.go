// Package auth holds the credential primitives: bcrypt password hashing and
// HS256 bearer tokens.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor used for every new digest.
const PasswordCost = 10

var (
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	ErrHashFailed      = errors.New("failed to hash password")
)

// HashPassword returns a self-describing bcrypt digest with a fresh salt.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), PasswordCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("%w: %v", ErrHashFailed, err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches digest. A mismatch or an
// unparseable digest is false, not an error.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
