package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy describes the rules a new password must satisfy.
type PasswordPolicy struct {
	MinLength              int
	MaxBytes               int // 0 means unbounded
	RequireDigit           bool
	RequireLowercase       bool
	RequireUppercase       bool
	RequireNonAlphanumeric bool
}

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// DefaultPasswordPolicy: 6 characters to 72 bytes, with a digit, a lowercase
// letter and a non-alphanumeric character.
var DefaultPasswordPolicy = PasswordPolicy{
	MinLength:              6,
	MaxBytes:               MaxPasswordBytes,
	RequireDigit:           true,
	RequireLowercase:       true,
	RequireNonAlphanumeric: true,
}

// Check returns one message per rule the password breaks.
func (p PasswordPolicy) Check(password string) []string {
	var (
		msgs                                   []string
		hasDigit, hasLower, hasUpper, hasOther bool
	)
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			hasOther = true
		}
	}

	if len([]rune(password)) < p.MinLength {
		msgs = append(msgs, fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength))
	}
	if p.MaxBytes > 0 && len(password) > p.MaxBytes {
		msgs = append(msgs, fmt.Sprintf("Passwords must be at most %d bytes.", p.MaxBytes))
	}
	if p.RequireNonAlphanumeric && !hasOther {
		msgs = append(msgs, "Passwords must have at least one non alphanumeric character.")
	}
	if p.RequireDigit && !hasDigit {
		msgs = append(msgs, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLowercase && !hasLower {
		msgs = append(msgs, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUppercase && !hasUpper {
		msgs = append(msgs, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	return msgs
}

const usernameAllowed = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._@+"

// ValidUsername reports whether every character of name is allowed.
func ValidUsername(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !strings.ContainsRune(usernameAllowed, r) {
			return false
		}
	}
	return true
}
