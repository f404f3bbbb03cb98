package password_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sauron136/custos/pkg/password"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		password   string
		violations int
	}{
		{
			name:       "strong password",
			password:   "Str0ng!Pass",
			violations: 0,
		},
		{
			name:       "too short but otherwise fine",
			password:   "Ab1!xyz",
			violations: 1,
		},
		{
			name:       "missing uppercase",
			password:   "weak1!password",
			violations: 1,
		},
		{
			name:       "missing digit and special",
			password:   "WeakPassword",
			violations: 2,
		},
		{
			name:       "everything wrong",
			password:   "abc",
			violations: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, password.Validate(tt.password), tt.violations)
		})
	}
}

func TestValidate_CommonPassword(t *testing.T) {
	violations := password.Validate("password123")
	assert.Contains(t, violations, "Password is too common.")

	// The common-password list is matched case-insensitively.
	violations = password.Validate("PASSWORD123")
	assert.Contains(t, violations, "Password is too common.")
}

func TestValidate_ReturnsEveryViolation(t *testing.T) {
	violations := password.Validate("abc")

	assert.Contains(t, violations, "Password must be at least 8 characters long.")
	assert.Contains(t, violations, "Password must contain at least one uppercase letter.")
	assert.Contains(t, violations, "Password must contain at least one digit.")
	assert.Contains(t, violations, "Password must contain at least one special character.")
}
