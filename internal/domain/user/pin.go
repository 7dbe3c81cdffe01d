package user

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/sppgdatasystem/bgn/internal/domain/record"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPIN is the PIN of users created before PINs existed.
const DefaultPIN = "1234"

// EffectivePIN is the migration rule for legacy users: a user without a stored
// PIN authenticates with DefaultPIN.
func EffectivePIN(u record.User) string {
	if strings.TrimSpace(u.PIN) == "" {
		return DefaultPIN
	}
	return u.PIN
}

// HashPIN returns a bcrypt hash for storage.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(hash), nil
}

// VerifyPIN compares input against a stored PIN, plain or bcrypt-hashed.
func VerifyPIN(stored, input string) bool {
	if isBcrypt(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(input)) == 1
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
