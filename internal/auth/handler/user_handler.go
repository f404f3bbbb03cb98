package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sauron136/custos/internal/auth/dto"
)

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals(LocalUserID).(string)

	user, err := h.userService.GetProfile(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var input dto.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	userID, _ := c.Locals(LocalUserID).(string)

	user, err := h.userService.UpdateProfile(c.Context(), userID, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewUserOutput(user))
}

func (h *AuthHandler) ListSessions(c *fiber.Ctx) error {
	userID, _ := c.Locals(LocalUserID).(string)

	sessions, err := h.userService.ListSessions(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	out := make([]*dto.SessionOutput, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.NewSessionOutput(s, c.IP()))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *AuthHandler) RevokeSession(c *fiber.Ctx) error {
	userID, _ := c.Locals(LocalUserID).(string)
	sessionID := c.Params("id")

	if err := h.userService.RevokeSession(c.Context(), userID, sessionID); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Session revoked successfully.",
	})
}
