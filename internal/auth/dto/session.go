package dto

import (
	"time"

	"github.com/sauron136/custos/internal/auth/domain"
)

type SessionOutput struct {
	ID           string    `json:"id"`
	DeviceInfo   string    `json:"device_info"`
	IPAddress    string    `json:"ip_address"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	IsCurrent    bool      `json:"is_current"`
}

// NewSessionOutput maps a session row; currentIP marks the caller's own
// session in the listing.
func NewSessionOutput(s *domain.UserSession, currentIP string) *SessionOutput {
	return &SessionOutput{
		ID:           s.ID,
		DeviceInfo:   s.DeviceInfo,
		IPAddress:    s.IPAddress,
		UserAgent:    s.UserAgent,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		IsCurrent:    s.IPAddress == currentIP,
	}
}
