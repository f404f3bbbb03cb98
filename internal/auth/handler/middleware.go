package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by RequireAuth.
const (
	LocalUserID    = "user_id"
	LocalUserEmail = "user_email"
)

// HeaderSessionKey optionally carries the session key issued at login so
// the session's last_activity can be kept current.
const HeaderSessionKey = "X-Session-Key"

// RequireAuth verifies the bearer access token by signature and expiry
// alone; no store lookup happens on the hot path.
func (h *AuthHandler) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}

		claims, err := h.tokenService.VerifyAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserEmail, claims.Email)

		if key := c.Get(HeaderSessionKey); key != "" {
			h.userService.TouchSession(c.Context(), key)
		}

		return c.Next()
	}
}
