package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPIN hashes a plaintext PIN with the configured bcrypt cost. PINs are
// only ever stored through this function; the plaintext never reaches the
// directory.
func HashPIN(pin string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPIN verifies a PIN against its stored hash. A mismatch is reported as
// (false, nil); an error means the stored hash itself is unusable.
func CheckPIN(storedHash, pin string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pin))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("compare pin hash: %w", err)
}
