package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RegisterInput(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		verr := Validate(RegisterInput{
			Email:           "test@example.com",
			Username:        "test_user1",
			FirstName:       "Test",
			LastName:        "User",
			Password:        "Str0ng!Pass",
			PasswordConfirm: "Str0ng!Pass",
		})
		assert.Nil(t, verr)
	})

	t.Run("collects every violation", func(t *testing.T) {
		verr := Validate(RegisterInput{
			Email:    "not-an-email",
			Username: "x",
		})
		require.NotNil(t, verr)

		fields := map[string]string{}
		for _, f := range verr.Fields {
			fields[f.Field] = f.Message
		}

		assert.Equal(t, "Enter a valid email address.", fields["email"])
		assert.Equal(t, "Must be at least 3 characters long.", fields["username"])
		assert.Equal(t, "This field is required.", fields["first_name"])
		assert.Equal(t, "This field is required.", fields["last_name"])
		assert.Equal(t, "This field is required.", fields["password"])
		assert.Equal(t, "This field is required.", fields["password_confirm"])
	})

	t.Run("username with illegal characters", func(t *testing.T) {
		verr := Validate(RegisterInput{
			Email:           "test@example.com",
			Username:        "bad name!",
			FirstName:       "Test",
			LastName:        "User",
			Password:        "Str0ng!Pass",
			PasswordConfirm: "Str0ng!Pass",
		})
		require.NotNil(t, verr)
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "username", verr.Fields[0].Field)
		assert.Equal(t, "Username can only contain letters, numbers, and underscores.", verr.Fields[0].Message)
	})

	t.Run("underscores allowed in username", func(t *testing.T) {
		verr := Validate(RegisterInput{
			Email:           "test@example.com",
			Username:        "test_user",
			FirstName:       "Test",
			LastName:        "User",
			Password:        "Str0ng!Pass",
			PasswordConfirm: "Str0ng!Pass",
		})
		assert.Nil(t, verr)
	})
}

func TestValidate_LoginInput(t *testing.T) {
	verr := Validate(LoginInput{})
	require.NotNil(t, verr)
	assert.Len(t, verr.Fields, 2)
}

func TestFieldName(t *testing.T) {
	verr := Validate(ChangePasswordInput{})
	require.NotNil(t, verr)

	var fields []string
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}

	assert.ElementsMatch(t, []string{"old_password", "new_password", "new_password_confirm"}, fields)
}
