package domain

import "time"

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	PhoneNumber  string
	Bio          string
	Timezone     string

	EmailNotifications bool
	PushNotifications  bool

	IsActive    bool
	IsVerified  bool
	IsStaff     bool
	IsSuperuser bool

	DateJoined time.Time
	LastLogin  *time.Time
	UpdatedAt  time.Time
}

// FullName joins first and last name, skipping whichever is empty.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.LastName
	}
}

type EmailVerificationToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
	IsUsed    bool
}

func (t *EmailVerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	IPAddress string
	UserAgent string
	CreatedAt time.Time
	ExpiresAt time.Time
	IsUsed    bool
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type RefreshToken struct {
	ID         string
	UserID     string
	Token      string
	DeviceInfo string
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Revoked    bool
}

// Valid reports whether the token can still be exchanged.
func (t *RefreshToken) Valid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

type LoginAttempt struct {
	ID            string
	Email         string
	IPAddress     string
	UserAgent     string
	Success       bool
	FailureReason string
	AttemptedAt   time.Time
}

type UserSession struct {
	ID           string
	UserID       string
	SessionKey   string
	IPAddress    string
	UserAgent    string
	DeviceInfo   string
	CreatedAt    time.Time
	LastActivity time.Time
	IsActive     bool
}
