package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	autherror "github.com/sauron136/custos/internal/errors"
)

func TestValidationError(t *testing.T) {
	verr := &autherror.ValidationError{}
	assert.False(t, verr.HasErrors())

	verr.Add("email", "Enter a valid email address.")
	verr.Add("password", "Password must be at least 8 characters long.")
	verr.Add("password", "Password must contain at least one digit.")

	assert.True(t, verr.HasErrors())
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, verr.Error(), "email: Enter a valid email address.")
	assert.Contains(t, verr.Error(), "password: Password must contain at least one digit.")
}

func TestAsValidation(t *testing.T) {
	verr := &autherror.ValidationError{}
	verr.Add("email", "Enter a valid email address.")

	t.Run("direct", func(t *testing.T) {
		got, ok := autherror.AsValidation(verr)
		assert.True(t, ok)
		assert.Equal(t, verr, got)
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("handling request: %w", verr)
		got, ok := autherror.AsValidation(wrapped)
		assert.True(t, ok)
		assert.Equal(t, verr, got)
	})

	t.Run("other error", func(t *testing.T) {
		_, ok := autherror.AsValidation(autherror.ErrInvalidCredentials)
		assert.False(t, ok)
	})

	t.Run("nil", func(t *testing.T) {
		_, ok := autherror.AsValidation(nil)
		assert.False(t, ok)
	})
}
