package dto

import (
	"time"

	"github.com/sauron136/custos/internal/auth/domain"
)

type UserOutput struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Username           string     `json:"username"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	FullName           string     `json:"full_name"`
	PhoneNumber        string     `json:"phone_number"`
	Bio                string     `json:"bio"`
	Timezone           string     `json:"timezone"`
	EmailNotifications bool       `json:"email_notifications"`
	PushNotifications  bool       `json:"push_notifications"`
	IsVerified         bool       `json:"is_verified"`
	DateJoined         time.Time  `json:"date_joined"`
	LastLogin          *time.Time `json:"last_login"`
}

// NewUserOutput maps a domain user onto the response shape.
func NewUserOutput(u *domain.User) *UserOutput {
	return &UserOutput{
		ID:                 u.ID,
		Email:              u.Email,
		Username:           u.Username,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		FullName:           u.FullName(),
		PhoneNumber:        u.PhoneNumber,
		Bio:                u.Bio,
		Timezone:           u.Timezone,
		EmailNotifications: u.EmailNotifications,
		PushNotifications:  u.PushNotifications,
		IsVerified:         u.IsVerified,
		DateJoined:         u.DateJoined,
		LastLogin:          u.LastLogin,
	}
}

// UpdateProfileInput carries the editable profile fields. Pointers
// distinguish "not sent" from "set to empty".
type UpdateProfileInput struct {
	FirstName          *string `json:"first_name"`
	LastName           *string `json:"last_name"`
	PhoneNumber        *string `json:"phone_number"`
	Bio                *string `json:"bio"`
	Timezone           *string `json:"timezone"`
	EmailNotifications *bool   `json:"email_notifications"`
	PushNotifications  *bool   `json:"push_notifications"`
}
