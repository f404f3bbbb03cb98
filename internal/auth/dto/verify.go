package dto

type VerifyEmailInput struct {
	Token string `json:"token" validate:"required"`
}

type ResendVerificationInput struct {
	Email string `json:"email" validate:"required,email"`
}
