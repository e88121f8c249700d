// pkg/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWeakPassword    = errors.New("password does not meet requirements")
	ErrPasswordInvalid = errors.New("password does not match")
	ErrInvalidUsername = errors.New("invalid username")
)

// PasswordPolicy lists the rules a new password must satisfy
type PasswordPolicy struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

// DefaultPasswordPolicy is used when no policy is configured
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:     8,
		RequireUpper:  true,
		RequireLower:  true,
		RequireNumber: true,
	}
}

// PasswordManager handles password hashing and validation
type PasswordManager struct {
	policy PasswordPolicy
	cost   int
}

// NewPasswordManager creates a password manager. A cost of zero selects bcrypt.DefaultCost.
func NewPasswordManager(policy PasswordPolicy, cost int) *PasswordManager {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordManager{
		policy: policy,
		cost:   cost,
	}
}

// HashPassword validates and hashes a password using bcrypt
func (pm *PasswordManager) HashPassword(password string) (string, error) {
	if err := pm.ValidatePassword(password); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), pm.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword compares a password with a hash
func (pm *PasswordManager) ComparePassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordInvalid
	}
	return err
}

// ValidatePassword checks if a password meets the policy
func (pm *PasswordManager) ValidatePassword(password string) error {
	if len(password) < pm.policy.MinLength {
		return fmt.Errorf("%w: minimum length is %d characters", ErrWeakPassword, pm.policy.MinLength)
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("%w: maximum length is 72 bytes", ErrWeakPassword)
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	if pm.policy.RequireUpper && !hasUpper {
		return fmt.Errorf("%w: must contain at least one uppercase letter", ErrWeakPassword)
	}
	if pm.policy.RequireLower && !hasLower {
		return fmt.Errorf("%w: must contain at least one lowercase letter", ErrWeakPassword)
	}
	if pm.policy.RequireNumber && !hasNumber {
		return fmt.Errorf("%w: must contain at least one number", ErrWeakPassword)
	}
	if pm.policy.RequireSpecial && !hasSpecial {
		return fmt.Errorf("%w: must contain at least one special character", ErrWeakPassword)
	}

	return nil
}

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-]+$`)

// ValidateUsername validates a username
func ValidateUsername(username string) error {
	if len(username) < 3 {
		return fmt.Errorf("%w: must be at least 3 characters", ErrInvalidUsername)
	}

	if len(username) > 50 {
		return fmt.Errorf("%w: must not exceed 50 characters", ErrInvalidUsername)
	}

	// Username can contain letters, numbers, underscore, and hyphen
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("%w: can only contain letters, numbers, underscore, and hyphen", ErrInvalidUsername)
	}

	return nil
}
