package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

// HashPassword hashes a plain text password with bcrypt and a fresh salt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// ComparePassword reports whether plain matches hash. A mismatch is not an
// error; only a malformed hash is.
func ComparePassword(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
