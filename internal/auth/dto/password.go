package dto

type PasswordResetRequestInput struct {
	Email     string `json:"email" validate:"required,email"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type PasswordResetConfirmInput struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

type ChangePasswordInput struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}
