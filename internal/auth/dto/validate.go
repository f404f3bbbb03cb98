package dto

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/sauron136/custos/internal/errors"
)

var validate = newValidator()

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	// validator has alphanum but underscores are allowed in usernames.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate runs struct-tag validation and collects every violation into a
// ValidationError rather than stopping at the first.
func Validate(input any) *apperrors.ValidationError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	verr := &apperrors.ValidationError{}
	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		verr.Add("request", "invalid request body")
		return verr
	}

	for _, fe := range invalid {
		verr.Add(fieldName(fe), message(fe))
	}
	return verr
}

func fieldName(fe validator.FieldError) string {
	// StructField is CamelCase; responses use the json snake_case names.
	var b strings.Builder
	for i, r := range fe.StructField() {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return "Must be at least " + fe.Param() + " characters long."
	case "username":
		return "Username can only contain letters, numbers, and underscores."
	default:
		return "This value is invalid."
	}
}
