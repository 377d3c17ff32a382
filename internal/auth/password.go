package auth

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
	minUsernameLength = 3
	maxUsernameLength = 20
)

// HashPassword hashes a plaintext password with bcrypt at the given cost.
func HashPassword(plaintext string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored bcrypt hash.
// A plain mismatch returns false, never an error.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// ValidatePasswordStrength checks the password rules and returns every
// violated rule, not just the first, so callers can show all problems at once.
func ValidatePasswordStrength(plaintext string) []string {
	var errs []string

	if len(plaintext) < minPasswordLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(plaintext) > maxPasswordLength {
		errs = append(errs, fmt.Sprintf("password must be at most %d characters", maxPasswordLength))
	}

	var hasLetter, hasDigit bool
	for _, r := range plaintext {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter {
		errs = append(errs, "password must contain at least one letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain at least one digit")
	}

	return errs
}

// ValidateUsername checks the username rules and returns every violated rule.
func ValidateUsername(name string) []string {
	var errs []string

	if len(name) < minUsernameLength {
		errs = append(errs, fmt.Sprintf("username must be at least %d characters", minUsernameLength))
	}
	if len(name) > maxUsernameLength {
		errs = append(errs, fmt.Sprintf("username must be at most %d characters", maxUsernameLength))
	}

	for _, r := range name {
		if !isUsernameRune(r) {
			errs = append(errs, "username may only contain letters, digits and underscores")
			break
		}
	}

	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		errs = append(errs, "username must not start with a digit")
	}

	return errs
}

func isUsernameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}
