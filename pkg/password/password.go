// Package password implements the account password policy.
package password

import (
	"strings"
	"unicode"
)

const minLength = 8

var commonPasswords = map[string]struct{}{
	"password":    {},
	"123456":      {},
	"12345678":    {},
	"qwerty":      {},
	"abc123":      {},
	"password123": {},
	"admin":       {},
	"letmein":     {},
	"welcome":     {},
	"monkey":      {},
}

const specialChars = `!@#$%^&*(),.?":{}|<>`

// Validate checks a candidate password against the policy and returns
// every violated rule, not just the first.
func Validate(password string) []string {
	var violations []string

	if len(password) < minLength {
		violations = append(violations, "Password must be at least 8 characters long.")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter.")
	}
	if !hasLower {
		violations = append(violations, "Password must contain at least one lowercase letter.")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain at least one digit.")
	}
	if !hasSpecial {
		violations = append(violations, "Password must contain at least one special character.")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		violations = append(violations, "Password is too common.")
	}

	return violations
}
